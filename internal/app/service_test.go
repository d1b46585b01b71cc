package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/openpmo/scorecard/internal/app"

	"github.com/openpmo/scorecard/internal/adapters/codec"
	"github.com/openpmo/scorecard/internal/adapters/warehouse"
	"github.com/openpmo/scorecard/internal/domain/model"
	"github.com/openpmo/scorecard/internal/domain/quality"
	"github.com/openpmo/scorecard/internal/domain/sample"
	"github.com/openpmo/scorecard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeSink struct {
	rows    int
	err     error
	lastDst warehouse.Destination
}

func (f *fakeSink) Upload(_ context.Context, dest warehouse.Destination, sheet *model.Sheet) (int, error) {
	f.lastDst = dest
	if f.err != nil {
		return 0, f.err
	}
	f.rows = len(sheet.Rows)
	return f.rows, nil
}

func newService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("service start: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestServiceWorkflow(t *testing.T) {
	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return today }

	Convey("Given a started service", t, func() {
		svc := newService(t, service.WithClock(clock))
		ctx := context.Background()

		Convey("When a fresh session asks for its workbook", func() {
			wb, err := svc.Workbook(ctx, "s1")
			So(err, ShouldBeNil)

			Convey("Then it gets the blank starter sheet", func() {
				So(wb.SheetOrder, ShouldResemble, []string{"Sheet1"})
				So(wb.Sheet("Sheet1").Columns, ShouldResemble, model.DefaultColumns)
			})
		})

		Convey("When uploading the sample workbook", func() {
			payload, err := codec.Encode(sample.Workbook(today))
			So(err, ShouldBeNil)
			wb, err := svc.LoadWorkbook(ctx, "s1", bytes.NewReader(payload))
			So(err, ShouldBeNil)
			So(len(wb.SheetOrder), ShouldEqual, 3)

			Convey("Then edits are visible on the next pass", func() {
				So(svc.SetCell(ctx, "s1", sample.MilestonesSheet, 0, "Status", ""), ShouldBeNil)

				findings, err := svc.Findings(ctx, "s1")
				So(err, ShouldBeNil)
				So(len(findings), ShouldEqual, 1)
				So(findings[0].Kind, ShouldEqual, quality.NullValue)
				So(findings[0].Row, ShouldEqual, 0)
			})

			Convey("Then the scorecard reflects live state", func() {
				view, err := svc.Scorecard(ctx, "s1", today, 30)
				So(err, ShouldBeNil)
				So(len(view.Overdue), ShouldEqual, 1)
				So(len(view.Upcoming), ShouldEqual, 3)
				So(view.HorizonDays, ShouldEqual, 30)

				total := 0
				for _, c := range view.Counts {
					total += c.Count
				}
				So(total, ShouldEqual, 6)
			})

			Convey("Then the scorecard rolls up the risks sheet", func() {
				view, err := svc.Scorecard(ctx, "s1", today, 30)
				So(err, ShouldBeNil)
				So(view.Risks.Total, ShouldEqual, 4)
				So(view.Risks.Critical, ShouldEqual, 2)
				So(len(view.Risks.Top), ShouldEqual, 4)
				So(view.Risks.Top[0].Severity, ShouldBeGreaterThanOrEqualTo, view.Risks.Top[1].Severity)
			})

			Convey("Then appended rows land at the end", func() {
				idx, err := svc.AppendRow(ctx, "s1", sample.MilestonesSheet, map[string]string{
					"Milestone": "Contract renewal",
					"Status":    "Not Started",
				})
				So(err, ShouldBeNil)
				So(idx, ShouldEqual, 6)

				So(svc.DeleteRow(ctx, "s1", sample.MilestonesSheet, idx), ShouldBeNil)
			})

			Convey("Then exports cover the whole workbook", func() {
				xlsx, err := svc.ExportWorkbook(ctx, "s1")
				So(err, ShouldBeNil)
				decoded, err := codec.Decode(bytes.NewReader(xlsx))
				So(err, ShouldBeNil)
				So(decoded.SheetOrder, ShouldResemble, wb.SheetOrder)

				csv, err := svc.ExportCSV(ctx, "s1", sample.RisksSheet)
				So(err, ShouldBeNil)
				So(string(csv), ShouldStartWith, "Initiative,Risk,Impact")
			})
		})

		Convey("When uploading garbage", func() {
			_, seedErr := svc.Workbook(ctx, "s1")
			So(seedErr, ShouldBeNil)
			_, err := svc.LoadWorkbook(ctx, "s1", bytes.NewReader([]byte("junk")))

			Convey("Then the previous workbook stays active", func() {
				So(err, ShouldNotBeNil)
				wb, gerr := svc.Workbook(ctx, "s1")
				So(gerr, ShouldBeNil)
				So(wb.SheetOrder, ShouldResemble, []string{"Sheet1"})
			})
		})

		Convey("When editing an unknown sheet or cell", func() {
			So(errors.Is(svc.SetCell(ctx, "s1", "Nope", 0, "Status", "x"), codec.ErrUnknownSheet), ShouldBeTrue)
			So(errors.Is(svc.SetCell(ctx, "s1", "Sheet1", 5, "Status", "x"), service.ErrBadCell), ShouldBeTrue)
		})

		Convey("When requesting the template", func() {
			payload, err := svc.Template(ctx)
			So(err, ShouldBeNil)
			decoded, err := codec.Decode(bytes.NewReader(payload))
			So(err, ShouldBeNil)
			So(decoded.SheetOrder, ShouldResemble, []string{
				sample.PortfolioSheet, sample.MilestonesSheet, sample.RisksSheet,
			})
		})

		Convey("When dropping a session", func() {
			_, err := svc.Workbook(ctx, "gone")
			So(err, ShouldBeNil)
			svc.DropSession(ctx, "gone")
			So(svc.SessionCount(ctx), ShouldBeGreaterThanOrEqualTo, 0)
		})
	})
}

func TestServiceSync(t *testing.T) {
	Convey("Given a service without a warehouse destination", t, func() {
		svc := newService(t)

		Convey("Then sync reports the sink as disabled", func() {
			_, err := svc.SyncSheet(context.Background(), "s1", "Sheet1", "")
			So(errors.Is(err, warehouse.ErrDisabled), ShouldBeTrue)
		})
	})

	Convey("Given a service with a configured destination and fake sink", t, func() {
		sink := &fakeSink{}
		svc := newService(t,
			service.WithWarehouseDestination(warehouse.Destination{
				Account: "acme-eu1", User: "loader", Database: "PMO", Schema: "PUBLIC", Table: "DEFAULT_TBL",
			}),
			service.WithWarehouseSink(sink),
		)
		ctx := context.Background()
		_, err := svc.Workbook(ctx, "s1")
		So(err, ShouldBeNil)

		Convey("When syncing the starter sheet", func() {
			rows, err := svc.SyncSheet(ctx, "s1", "Sheet1", "")
			So(err, ShouldBeNil)
			So(rows, ShouldEqual, 0)
			So(sink.lastDst.Table, ShouldEqual, "DEFAULT_TBL")
		})

		Convey("When overriding the table name", func() {
			_, err := svc.SyncSheet(ctx, "s1", "Sheet1", "MILESTONES_V2")
			So(err, ShouldBeNil)
			So(sink.lastDst.Table, ShouldEqual, "MILESTONES_V2")
		})

		Convey("When the sink fails", func() {
			sink.err = warehouse.ErrConnect
			_, err := svc.SyncSheet(ctx, "s1", "Sheet1", "")

			Convey("Then the error surfaces and the workbook is untouched", func() {
				So(errors.Is(err, warehouse.ErrConnect), ShouldBeTrue)
				wb, gerr := svc.Workbook(ctx, "s1")
				So(gerr, ShouldBeNil)
				So(wb.SheetOrder, ShouldResemble, []string{"Sheet1"})
			})
		})
	})
}
