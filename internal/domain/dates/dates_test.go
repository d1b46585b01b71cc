package dates_test

import (
	"testing"
	"time"

	"github.com/openpmo/scorecard/internal/domain/dates"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given the accepted date formats", t, func() {
		Convey("When parsing ISO dates", func() {
			d, ok := dates.Parse("2024-06-01")
			So(ok, ShouldBeTrue)
			So(d, ShouldEqual, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
		})

		Convey("When parsing US-style dates", func() {
			for _, raw := range []string{"06/01/2024", "6/1/2024"} {
				d, ok := dates.Parse(raw)
				So(ok, ShouldBeTrue)
				So(d, ShouldEqual, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
			}
		})

		Convey("When parsing spelled-out dates", func() {
			d, ok := dates.Parse("Jan 2, 2024")
			So(ok, ShouldBeTrue)
			So(d, ShouldEqual, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

			d, ok = dates.Parse("02-Jan-2024")
			So(ok, ShouldBeTrue)
			So(d, ShouldEqual, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
		})

		Convey("When parsing timestamps the time of day is dropped", func() {
			d, ok := dates.Parse("2024-06-01 09:30:00")
			So(ok, ShouldBeTrue)
			So(d.Hour(), ShouldEqual, 0)
		})

		Convey("When parsing an Excel serial number", func() {
			// 45444 is 2024-06-01 in the 1900 date system.
			d, ok := dates.Parse("45444")
			So(ok, ShouldBeTrue)
			So(d, ShouldEqual, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
			So(dates.FromSerial(45444), ShouldEqual, d)
		})

		Convey("When input is not a date", func() {
			for _, raw := range []string{"", "   ", "bad-date", "soon", "42.5", "12", "2024-13-40"} {
				_, ok := dates.Parse(raw)
				So(ok, ShouldBeFalse)
			}
		})
	})
}
