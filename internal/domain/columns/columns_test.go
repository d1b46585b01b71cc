package columns_test

import (
	"testing"
	"time"

	"github.com/openpmo/scorecard/internal/domain/columns"
	"github.com/openpmo/scorecard/internal/domain/model"
	"github.com/openpmo/scorecard/internal/domain/scorecard"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given a milestone sheet with alias headers", t, func() {
		s := &model.Sheet{
			Name:    columns.MilestonesSheet,
			Columns: []string{"Project", "Deliverable", "Due Date", "RAG", "Comments"},
		}
		s.AppendRow(model.Row{
			"Project":     model.Text("Apollo"),
			"Deliverable": model.Text("Beta launch"),
			"Due Date":    model.Text("2024-05-01"),
			"RAG":         model.Text("Red"),
			"Comments":    model.Text("slipping"),
		})

		Convey("When normalizing", func() {
			columns.Normalize(s)

			Convey("Then alias headers become canonical and missing ones are backfilled", func() {
				So(s.Columns, ShouldResemble, columns.Milestones)
				So(s.Rows[0]["Initiative"].Raw(), ShouldEqual, "Apollo")
				So(s.Rows[0]["Milestone"].Raw(), ShouldEqual, "Beta launch")
				So(s.Rows[0]["Target Date"].Raw(), ShouldEqual, "2024-05-01")
				So(s.Rows[0]["Status"].Raw(), ShouldEqual, "Red")
				So(s.Rows[0]["Notes"].Raw(), ShouldEqual, "slipping")
				So(s.Rows[0]["Owner"].IsEmpty(), ShouldBeTrue)
			})

			Convey("Then the scorecard sees the overdue row under the canonical due column", func() {
				today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
				sum := scorecard.NewRoller().Summarize(s, "Status", "Target Date", today, 30)

				So(sum.Counts, ShouldResemble, []scorecard.StatusCount{{Label: "Red", Count: 1}})
				So(len(sum.Overdue), ShouldEqual, 1)
				So(sum.Overdue[0].Row, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a portfolio sheet where Status means Health", t, func() {
		s := &model.Sheet{
			Name:    columns.PortfolioSheet,
			Columns: []string{"Project Name", "Status", "ETA"},
		}
		s.AppendRow(model.Row{
			"Project Name": model.Text("Apollo"),
			"Status":       model.Text("Amber"),
			"ETA":          model.Text("2024-07-01"),
		})
		columns.Normalize(s)

		Convey("Then the aliases land on Health and Target Date", func() {
			So(s.HasColumn("Health"), ShouldBeTrue)
			So(s.HasColumn("Status"), ShouldBeFalse)
			So(s.Rows[0]["Health"].Raw(), ShouldEqual, "Amber")
			So(s.Rows[0]["Target Date"].Raw(), ShouldEqual, "2024-07-01")
		})

		Convey("Then canonical columns lead and none are missing", func() {
			So(s.Columns, ShouldResemble, columns.Portfolio)
		})
	})

	Convey("Given headers in mixed case with padding", t, func() {
		s := &model.Sheet{
			Name:    columns.MilestonesSheet,
			Columns: []string{"  due DATE  ", "STATUS"},
		}
		columns.Normalize(s)

		So(s.HasColumn("Target Date"), ShouldBeTrue)
		So(s.HasColumn("Status"), ShouldBeTrue)
	})

	Convey("Given an alias whose canonical column already exists", t, func() {
		s := &model.Sheet{
			Name:    columns.MilestonesSheet,
			Columns: []string{"Target Date", "Due Date"},
		}
		s.AppendRow(model.Row{
			"Target Date": model.Text("2024-01-01"),
			"Due Date":    model.Text("2024-02-02"),
		})
		columns.Normalize(s)

		Convey("Then the alias keeps its own name instead of clobbering", func() {
			So(s.HasColumn("Target Date"), ShouldBeTrue)
			So(s.HasColumn("Due Date"), ShouldBeTrue)
			So(s.Rows[0]["Target Date"].Raw(), ShouldEqual, "2024-01-01")
			So(s.Rows[0]["Due Date"].Raw(), ShouldEqual, "2024-02-02")
		})
	})

	Convey("Given a sheet outside the scorecard layout", t, func() {
		s := &model.Sheet{
			Name:    "Budget Detail",
			Columns: []string{"Due Date", "rag"},
		}
		columns.Normalize(s)

		Convey("Then its headers pass through untouched", func() {
			So(s.Columns, ShouldResemble, []string{"Due Date", "rag"})
		})
	})

	Convey("Given a nil sheet", t, func() {
		So(func() { columns.Normalize(nil) }, ShouldNotPanic)
	})
}

func TestCanonical(t *testing.T) {
	Convey("Given the canonical layout", t, func() {
		So(columns.Canonical(columns.PortfolioSheet), ShouldResemble, columns.Portfolio)
		So(columns.Canonical(columns.MilestonesSheet), ShouldResemble, columns.Milestones)
		So(columns.Canonical(columns.RisksSheet), ShouldResemble, columns.Risks)
		So(columns.Canonical("Sheet1"), ShouldBeNil)
	})
}
