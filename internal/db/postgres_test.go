package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestRetryOnConflict(t *testing.T) {
	conflict := fmt.Errorf("failed to commit transaction: %w", &pgconn.PgError{Code: "40001"})
	boom := errors.New("boom")

	tests := []struct {
		name     string
		results  []error
		wantRuns int
		wantErr  error
	}{
		{"first try", []error{nil}, 1, nil},
		{"conflict then success", []error{conflict, nil}, 2, nil},
		{"other error is not retried", []error{boom, nil}, 1, boom},
		{"attempts exhausted", []error{conflict, conflict, conflict, nil}, 3, conflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := 0
			err := retryOnConflict(context.Background(), 3, func() error {
				err := tt.results[runs]
				runs++
				return err
			})
			if runs != tt.wantRuns {
				t.Errorf("runs = %d, want %d", runs, tt.wantRuns)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryOnConflict_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runs := 0
	err := retryOnConflict(ctx, 3, func() error {
		runs++
		cancel()
		return &pgconn.PgError{Code: "40P01"}
	})
	if runs != 1 {
		t.Errorf("runs = %d after cancel, want 1", runs)
	}
	if err == nil {
		t.Error("expected the conflict error to be returned")
	}
}
