package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/openpmo/scorecard/internal/adapters/http/api"
	"github.com/openpmo/scorecard/internal/adapters/warehouse"
	"github.com/openpmo/scorecard/internal/domain/model"
	"github.com/openpmo/scorecard/internal/domain/quality"
	"github.com/openpmo/scorecard/internal/domain/scorecard"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	wb       *model.Workbook
	loadErr  error
	findings []quality.Finding
	view     api.ScorecardView
	export   []byte
	csv      []byte
	syncRows int
	syncErr  error
}

func (m *mockDependencies) Workbook(ctx context.Context, sessionID string) (*model.Workbook, error) {
	if m.wb == nil {
		m.wb = model.NewStarterWorkbook()
	}
	return m.wb, nil
}

func (m *mockDependencies) LoadWorkbook(ctx context.Context, sessionID string, r io.Reader) (*model.Workbook, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.Workbook(ctx, sessionID)
}

func (m *mockDependencies) SetCell(ctx context.Context, sessionID, sheet string, row int, column, raw string) error {
	wb, _ := m.Workbook(ctx, sessionID)
	s := wb.Sheet(sheet)
	if s == nil {
		return model.ErrBadCell
	}
	if !s.SetCell(row, column, model.Parse(raw)) {
		return model.ErrBadCell
	}
	return nil
}

func (m *mockDependencies) AppendRow(ctx context.Context, sessionID, sheet string, cells map[string]string) (int, error) {
	wb, _ := m.Workbook(ctx, sessionID)
	row := make(model.Row, len(cells))
	for col, raw := range cells {
		row[col] = model.Parse(raw)
	}
	return wb.Sheet(sheet).AppendRow(row), nil
}

func (m *mockDependencies) DeleteRow(ctx context.Context, sessionID, sheet string, row int) error {
	wb, _ := m.Workbook(ctx, sessionID)
	if !wb.Sheet(sheet).DeleteRow(row) {
		return model.ErrBadCell
	}
	return nil
}

func (m *mockDependencies) Findings(ctx context.Context, sessionID string) ([]quality.Finding, error) {
	return m.findings, nil
}

func (m *mockDependencies) Scorecard(ctx context.Context, sessionID string, asOf time.Time, horizonDays int) (api.ScorecardView, error) {
	v := m.view
	v.AsOf = asOf
	v.HorizonDays = horizonDays
	return v, nil
}

func (m *mockDependencies) ExportWorkbook(ctx context.Context, sessionID string) ([]byte, error) {
	return m.export, nil
}

func (m *mockDependencies) ExportCSV(ctx context.Context, sessionID, sheet string) ([]byte, error) {
	return m.csv, nil
}

func (m *mockDependencies) Template(ctx context.Context) ([]byte, error) {
	return m.export, nil
}

func (m *mockDependencies) SyncSheet(ctx context.Context, sessionID, sheet, table string) (int, error) {
	return m.syncRows, m.syncErr
}

type mockStatsProvider struct {
	stats map[string]any
}

func (m *mockStatsProvider) GetStats() map[string]any {
	return m.stats
}

func newMux(deps *mockDependencies) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]any{"activeSessions": 1}})
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func multipartBody(field, filename string, payload []byte) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile(field, filename)
	_, _ = fw.Write(payload)
	_ = mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{export: []byte("xlsx-bytes"), csv: []byte("a,b\n")}
		mux := newMux(deps)

		Convey("Then the health endpoint should serve metrics", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then the stats endpoint should return JSON", func() {
			req := httptest.NewRequest(http.MethodGet, "/stats", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "activeSessions")
		})
	})
}

func TestWorkbookEndpoints(t *testing.T) {
	Convey("Given a session with a starter workbook", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("When requesting workbook metadata", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/workbook", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return the starter sheet", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					Sheets []struct {
						Name    string   `json:"name"`
						Columns []string `json:"columns"`
						Rows    int      `json:"rows"`
					} `json:"sheets"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(len(resp.Sheets), ShouldEqual, 1)
				So(resp.Sheets[0].Name, ShouldEqual, "Sheet1")
				So(resp.Sheets[0].Columns, ShouldResemble, model.DefaultColumns)
			})

			Convey("Then it should set a session cookie", func() {
				cookies := w.Result().Cookies()
				So(len(cookies), ShouldEqual, 1)
				So(cookies[0].Name, ShouldEqual, "scorecard_session")
				So(cookies[0].Value, ShouldNotBeEmpty)
			})
		})

		Convey("When uploading a workbook", func() {
			body, contentType := multipartBody("file", "book.xlsx", []byte("payload"))
			req := httptest.NewRequest(http.MethodPost, "/api/workbook", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return the new metadata", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "Sheet1")
			})
		})

		Convey("When uploading without a file field", func() {
			body, contentType := multipartBody("wrong", "book.xlsx", []byte("payload"))
			req := httptest.NewRequest(http.MethodPost, "/api/workbook", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should reject the request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestSheetEndpoints(t *testing.T) {
	Convey("Given a session with a starter workbook", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("When fetching an existing sheet", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/sheets/Sheet1", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return columns and rows", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					Name    string     `json:"name"`
					Columns []string   `json:"columns"`
					Rows    [][]string `json:"rows"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Name, ShouldEqual, "Sheet1")
				So(resp.Columns, ShouldResemble, model.DefaultColumns)
			})
		})

		Convey("When fetching a sheet that does not exist", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/sheets/Nope", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When appending and then editing a row", func() {
			appendBody := strings.NewReader(`{"cells":{"Initiative":"Apollo","Status":"On Track"}}`)
			req := httptest.NewRequest(http.MethodPost, "/api/sheets/Sheet1/rows", appendBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusCreated)

			editBody := strings.NewReader(`{"row":0,"column":"Status","value":"Complete"}`)
			req = httptest.NewRequest(http.MethodPost, "/api/sheets/Sheet1/cells", editBody)
			w = httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the edit should land in the workbook", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				v := deps.wb.Sheet("Sheet1").Cell(0, "Status")
				So(v.Raw(), ShouldEqual, "Complete")
			})

			Convey("And deleting the row should succeed", func() {
				req := httptest.NewRequest(http.MethodDelete, "/api/sheets/Sheet1/rows/0", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(len(deps.wb.Sheet("Sheet1").Rows), ShouldEqual, 0)
			})
		})

		Convey("When editing a cell out of range", func() {
			editBody := strings.NewReader(`{"row":99,"column":"Status","value":"x"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/sheets/Sheet1/cells", editBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(w.Body.String(), ShouldContainSubstring, "bad_cell")
		})

		Convey("When the edit request is malformed", func() {
			editBody := strings.NewReader(`{"row":-1,"column":""}`)
			req := httptest.NewRequest(http.MethodPost, "/api/sheets/Sheet1/cells", editBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestFindingsEndpoint(t *testing.T) {
	Convey("Given a workbook with quality findings", t, func() {
		deps := &mockDependencies{findings: []quality.Finding{
			{Sheet: "Milestones", Column: "Target Date", Row: 2, Kind: quality.UnparseableDate, Raw: "soonish"},
		}}
		mux := newMux(deps)

		Convey("When requesting the findings report", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/findings", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should list the findings", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"clean":false`)
				So(w.Body.String(), ShouldContainSubstring, "unparseable_date")
			})
		})
	})

	Convey("Given a clean workbook", t, func() {
		mux := newMux(&mockDependencies{})

		Convey("When requesting the findings report", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/findings", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"clean":true`)
		})
	})
}

func TestScorecardEndpoint(t *testing.T) {
	Convey("Given a scorecard view", t, func() {
		deps := &mockDependencies{view: api.ScorecardView{
			Counts: []scorecard.StatusCount{{Label: "On Track", Count: 3}},
		}}
		mux := newMux(deps)

		Convey("When requesting with explicit parameters", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/scorecard?as_of=2024-06-01&horizon=14", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the parameters should pass through", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var view api.ScorecardView
				So(json.Unmarshal(w.Body.Bytes(), &view), ShouldBeNil)
				So(view.AsOf.Format("2006-01-02"), ShouldEqual, "2024-06-01")
				So(view.HorizonDays, ShouldEqual, 14)
				So(len(view.Counts), ShouldEqual, 1)
			})
		})

		Convey("When the as_of parameter is malformed", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/scorecard?as_of=June+1st", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the horizon parameter is not a positive number", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/scorecard?horizon=zero", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestExportEndpoints(t *testing.T) {
	Convey("Given exportable workbook state", t, func() {
		deps := &mockDependencies{export: []byte("xlsx-bytes"), csv: []byte("a,b\n1,2\n")}
		mux := newMux(deps)

		Convey("When exporting the workbook", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/export/workbook", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return an xlsx attachment", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "spreadsheetml")
				So(w.Header().Get("Content-Disposition"), ShouldContainSubstring, "attachment")
				So(w.Body.Bytes(), ShouldResemble, []byte("xlsx-bytes"))
			})
		})

		Convey("When exporting a sheet as CSV", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/export/csv?sheet=Milestones", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return a CSV attachment", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/csv")
				So(w.Header().Get("Content-Disposition"), ShouldContainSubstring, "Milestones.csv")
			})
		})

		Convey("When the CSV export names no sheet", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/export/csv", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When downloading the template", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/template", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Disposition"), ShouldContainSubstring, "scorecard_template.xlsx")
		})
	})
}

func TestSyncEndpoint(t *testing.T) {
	Convey("Given a configured warehouse", t, func() {
		deps := &mockDependencies{syncRows: 6}
		mux := newMux(deps)

		Convey("When syncing a sheet", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/sync", strings.NewReader(`{"sheet":"Milestones"}`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should report the rows written", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"rows":6`)
			})
		})

		Convey("When the request names no sheet", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/sync", strings.NewReader(`{}`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})

	Convey("Given no warehouse destination", t, func() {
		deps := &mockDependencies{syncErr: warehouse.ErrDisabled}
		mux := newMux(deps)

		Convey("When syncing a sheet", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/sync", strings.NewReader(`{"sheet":"Milestones"}`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should report the sink as unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(w.Body.String(), ShouldContainSubstring, "sync_disabled")
			})
		})
	})
}
