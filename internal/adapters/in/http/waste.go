package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/waste"
	"storefront/internal/generated/servers"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	entriesSheet = "Entries"
	summarySheet = "Summary"
)

// SubmitWaste handles POST /api/v1/waste.
func (s *Server) SubmitWaste(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req wasteRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	productID, err := toKernelID(req.ProductID)
	if err != nil {
		return err
	}
	unitCost, err := parseMoney("unit_cost", req.UnitCost)
	if err != nil {
		return err
	}

	cmd, err := commands.NewSubmitWasteCommand(productID, actor, req.Quantity, req.Reason, req.Notes, unitCost)
	if err != nil {
		return err
	}
	entryID, err := s.h.SubmitWaste.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return created(c, map[string]any{"id": entryID, "state": waste.Pending})
}

// DecideWaste handles POST /api/v1/waste/{id}/decision.
func (s *Server) DecideWaste(c echo.Context, id openapi_types.UUID) error {
	actor, entryID, err := actorAndID(c, id)
	if err != nil {
		return err
	}
	var req decisionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	var cmd commands.DecideWasteCommand
	state := waste.Rejected
	if *req.Approve {
		state = waste.Approved
		cmd, err = commands.NewApproveWasteCommand(entryID, actor)
	} else {
		cmd, err = commands.NewRejectWasteCommand(entryID, actor, req.Notes)
	}
	if err != nil {
		return err
	}
	if err := s.h.DecideWaste.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	s.metrics.WasteDecisions.WithLabelValues(string(state)).Inc()
	return ok(c, map[string]any{"id": entryID, "state": state})
}

// GetWasteSummary handles GET /api/v1/waste/summary.
func (s *Server) GetWasteSummary(c echo.Context, params servers.GetWasteSummaryParams) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	query, err := queries.NewWasteSummaryQuery(actor, queries.Period{From: params.From, To: params.To})
	if err != nil {
		return err
	}
	summary, err := s.h.WasteSummary.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(c, summary)
}

// ExportWaste handles GET /api/v1/waste/export with an XLSX workbook holding
// the matching entries and the per-state summary of the period.
func (s *Server) ExportWaste(c echo.Context, params servers.ExportWasteParams) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	period := queries.Period{From: params.From, To: params.To}

	var state *waste.State
	if params.State != nil {
		st, err := waste.ParseState(*params.State)
		if err != nil {
			return err
		}
		state = &st
	}

	listQuery, err := queries.NewListWasteEntriesQuery(actor, state, period)
	if err != nil {
		return err
	}
	summaryQuery, err := queries.NewWasteSummaryQuery(actor, period)
	if err != nil {
		return err
	}

	var (
		entries []queries.WasteEntryView
		summary queries.WasteSummary
	)
	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		var err error
		entries, err = s.h.WasteEntries.Handle(ctx, listQuery)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = s.h.WasteSummary.Handle(ctx, summaryQuery)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	buf, err := wasteWorkbook(entries, summary)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="waste.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

func wasteWorkbook(entries []queries.WasteEntryView, summary queries.WasteSummary) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", entriesSheet); err != nil {
		return nil, err
	}
	header := []any{"ID", "Product", "State", "Quantity", "Reason", "Notes", "Unit cost", "Total cost", "Logged by", "Created at", "Rejection notes"}
	if err := f.SetSheetRow(entriesSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, e := range entries {
		row := []any{
			e.ID.String(), e.ProductName, e.State, e.Quantity, e.Reason, e.Notes,
			e.UnitCost.Decimal().InexactFloat64(), e.TotalCost.Decimal().InexactFloat64(),
			e.LoggedBy.String(), e.CreatedAt, e.RejectionNotes,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(entriesSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	rows := [][]any{
		{"State", "Count", "Quantity", "Value"},
		totalsRow(string(waste.Pending), summary.Pending),
		totalsRow(string(waste.Approved), summary.Approved),
		totalsRow(string(waste.Rejected), summary.Rejected),
	}
	for i, row := range rows {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return nil, err
		}
	}

	return f.WriteToBuffer()
}

func totalsRow(state string, t queries.WasteTotals) []any {
	return []any{state, t.Count, t.Quantity, t.Value.Decimal().InexactFloat64()}
}
