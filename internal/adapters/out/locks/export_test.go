package locks

func (l *LocalOrderLocker) Held() int { return l.held() }
