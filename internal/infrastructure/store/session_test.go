package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/mkotelnikov/transcription-insights/internal/core/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedSession(t *testing.T) (*Session, *Store) {
	t.Helper()
	st := openTempStore(t)

	data := &domain.TableData{
		Columns: []string{"sample_name", "description", "medical_specialty", "transcription", "keywords"},
		Rows: [][]string{
			{"s1", "echo report", "Cardiology", "cardio findings normal", "cardio"},
			{"s2", "stress test", "Cardiology", "cardio stress results", "cardio, stress"},
			{"s3", "angiogram", "Cardiology", "cardio vessels clear", "cardio"},
			{"s4", "ct head", "Radiology", "no acute findings", "ct, head"},
			{"s5", "mri spine", "Cardiology", "cardio unrelated note", "mri"},
			{"s6", "x-ray chest", "Cardiology", "cardio silhouette normal", "xray"},
			{"s7", "ultrasound", "Radiology", "gallstones present", "ultrasound"},
		},
	}
	if err := st.ImportTable(context.Background(), "mtsamples", data, domain.PolicyReplace); err != nil {
		t.Fatalf("seed import: %v", err)
	}
	return NewSession(st, discardLogger()), st
}

func TestConnectAdoptsFirstTable(t *testing.T) {
	session, _ := seedSession(t)

	if !session.Connect(context.Background()) {
		t.Fatalf("Connect() = false, want true")
	}
	if session.PrimaryTable() != "mtsamples" {
		t.Fatalf("primary table = %s, want mtsamples", session.PrimaryTable())
	}
	if len(session.Columns()) != 5 {
		t.Fatalf("columns = %v, want 5 entries", session.Columns())
	}
}

func TestConnectReturnsFalseOnEmptyStore(t *testing.T) {
	st := openTempStore(t)
	session := NewSession(st, discardLogger())
	ctx := context.Background()

	if session.Connect(ctx) {
		t.Fatalf("Connect() = true for empty store")
	}

	// Queries stay non-fatal: empty results, never a panic or error.
	if rows := session.Search(ctx, "cardio", 3); len(rows) != 0 {
		t.Fatalf("Search on empty store = %d rows, want 0", len(rows))
	}
	if summary := session.SpecialtySummary(ctx); len(summary) != 0 {
		t.Fatalf("SpecialtySummary on empty store = %d entries, want 0", len(summary))
	}
}

func TestSpecialtySummaryOrdersByCountDescending(t *testing.T) {
	session, _ := seedSession(t)

	summary := session.SpecialtySummary(context.Background())
	if len(summary) != 2 {
		t.Fatalf("summary length = %d, want 2", len(summary))
	}
	if summary[0].Specialty != "Cardiology" || summary[0].Count != 5 {
		t.Fatalf("summary[0] = %+v, want Cardiology/5", summary[0])
	}
	if summary[1].Specialty != "Radiology" || summary[1].Count != 2 {
		t.Fatalf("summary[1] = %+v, want Radiology/2", summary[1])
	}
}

func TestSearchCapsAtLimitAndMatchesSubstring(t *testing.T) {
	session, _ := seedSession(t)

	rows := session.Search(context.Background(), "cardio", 3)
	if len(rows) != 3 {
		t.Fatalf("search rows = %d, want 3", len(rows))
	}
	for _, row := range rows {
		hit := false
		for _, col := range []string{"transcription", "description", "keywords"} {
			if v, ok := row.Get(col).(string); ok && strings.Contains(v, "cardio") {
				hit = true
				break
			}
		}
		if !hit {
			t.Fatalf("row without match: %+v", row.Values)
		}
	}
}

func TestSearchTriggersImplicitConnect(t *testing.T) {
	session, _ := seedSession(t)

	// No explicit Connect: the read must lazily adopt the primary table.
	rows := session.FilterBySpecialty(context.Background(), "Radiology", 10)
	if len(rows) != 2 {
		t.Fatalf("filter rows = %d, want 2", len(rows))
	}
	if session.PrimaryTable() != "mtsamples" {
		t.Fatalf("implicit connect did not cache the primary table")
	}
}

func TestExecuteQuerySwallowsExecutionErrors(t *testing.T) {
	session, _ := seedSession(t)

	rows := session.ExecuteQuery(context.Background(), "SELECT * FROM no_such_table")
	if len(rows) != 0 {
		t.Fatalf("bad query rows = %d, want 0", len(rows))
	}
}

func TestConnectRediscoversAfterNewImport(t *testing.T) {
	session, st := seedSession(t)
	ctx := context.Background()

	if !session.Connect(ctx) {
		t.Fatalf("Connect() = false")
	}

	// Schema changes are invisible until an explicit reconnect.
	extra := &domain.TableData{Columns: []string{"a"}, Rows: [][]string{{"1"}}}
	if err := st.ImportTable(ctx, "mtsamples", extra, domain.PolicyReplace); err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if got := len(session.Columns()); got != 5 {
		t.Fatalf("cached columns refreshed implicitly: %d", got)
	}

	if !session.Connect(ctx) {
		t.Fatalf("reconnect failed")
	}
	if got := len(session.Columns()); got != 1 {
		t.Fatalf("columns after reconnect = %d, want 1", got)
	}
}

func TestExecuteQueryMapsRowsInCursorOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	session := NewSession(&Store{db: db, driver: driverSQLite}, discardLogger())
	session.setPrimary("mtsamples", []string{"sample_name", "count"})

	mock.ExpectQuery("SELECT sample_name").
		WillReturnRows(sqlmock.NewRows([]string{"sample_name", "count"}).
			AddRow([]byte("s1"), int64(4)).
			AddRow("s2", int64(2)))

	rows := session.ExecuteQuery(context.Background(), "SELECT sample_name, count FROM mtsamples")
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if fmt.Sprintf("%v", rows[0].Columns) != "[sample_name count]" {
		t.Fatalf("cursor order lost: %v", rows[0].Columns)
	}
	if rows[0].Get("sample_name") != "s1" {
		t.Fatalf("byte value not normalized to string: %#v", rows[0].Get("sample_name"))
	}
	if rows[1].Get("count") != int64(2) {
		t.Fatalf("count = %#v, want int64(2)", rows[1].Get("count"))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
