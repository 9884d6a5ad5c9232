package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/smallbiznis/facture/internal/reconcile/domain"
	reconcilerepo "github.com/smallbiznis/facture/internal/reconcile/repository"
	reconcileservice "github.com/smallbiznis/facture/internal/reconcile/service"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	schema := []string{
		`CREATE TABLE payment_issue_queue (
			id TEXT PRIMARY KEY,
			quotation_id TEXT NOT NULL,
			customer_name TEXT NOT NULL DEFAULT '',
			amount REAL NOT NULL DEFAULT 0,
			created_by TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'Pending',
			retry_count INTEGER NOT NULL DEFAULT 0,
			last_error TEXT NOT NULL DEFAULT '',
			next_retry_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE UNIQUE INDEX idx_issue_queue_quotation_id ON payment_issue_queue(quotation_id)`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

type stubIssuer struct {
	fail  bool
	calls int
}

func (s *stubIssuer) EnsureForAcceptedQuotation(ctx context.Context, quotationID, customerName string, amount float64, createdBy string) error {
	s.calls++
	if s.fail {
		return errors.New("still down")
	}
	return nil
}

func newService(t *testing.T, db *gorm.DB, issuer domain.Issuer) domain.Service {
	t.Helper()
	node, err := snowflake.NewNode(6)
	require.NoError(t, err)
	return reconcileservice.New(reconcilerepo.New(db), issuer, node, zap.NewNop(), nil)
}

func TestDrainSettlesEntry(t *testing.T) {
	db := setupTestDB(t)
	issuer := &stubIssuer{}
	svc := newService(t, db, issuer)
	ctx := context.Background()

	require.NoError(t, svc.Enqueue(ctx, "q1", "Acme Corp", 118, "u1", "gateway timeout"))

	// Entries only become due after the backoff window.
	done, err := svc.Drain(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.Zero(t, done)
	assert.Zero(t, issuer.calls)

	done, err = svc.Drain(ctx, time.Now().UTC().Add(2*domain.BaseBackoff))
	require.NoError(t, err)
	assert.Equal(t, 1, done)
	assert.Equal(t, 1, issuer.calls)

	var status string
	require.NoError(t, db.Raw("SELECT status FROM payment_issue_queue WHERE quotation_id = 'q1'").Scan(&status).Error)
	assert.Equal(t, string(domain.StatusDone), status)
}

func TestDrainGoesDeadAfterMaxRetries(t *testing.T) {
	db := setupTestDB(t)
	issuer := &stubIssuer{fail: true}
	svc := newService(t, db, issuer)
	ctx := context.Background()

	require.NoError(t, svc.Enqueue(ctx, "q1", "Acme Corp", 118, "u1", "gateway timeout"))

	// Walk time far enough past each backoff window to trip every retry.
	at := time.Now().UTC()
	for i := 0; i < domain.MaxRetries+3; i++ {
		at = at.Add(domain.Backoff(domain.MaxRetries))
		_, err := svc.Drain(ctx, at)
		require.NoError(t, err)
	}

	assert.Equal(t, domain.MaxRetries, issuer.calls, "dead entries must not be retried again")

	var status string
	require.NoError(t, db.Raw("SELECT status FROM payment_issue_queue WHERE quotation_id = 'q1'").Scan(&status).Error)
	assert.Equal(t, string(domain.StatusDead), status)
}

func TestEnqueueIsUpsertPerQuotation(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db, &stubIssuer{})
	ctx := context.Background()

	require.NoError(t, svc.Enqueue(ctx, "q1", "Acme Corp", 118, "u1", "first failure"))
	require.NoError(t, svc.Enqueue(ctx, "q1", "Acme Corp", 118, "u1", "second failure"))

	var n int64
	require.NoError(t, db.Table("payment_issue_queue").Count(&n).Error)
	assert.EqualValues(t, 1, n)

	var lastError string
	require.NoError(t, db.Raw("SELECT last_error FROM payment_issue_queue WHERE quotation_id = 'q1'").Scan(&lastError).Error)
	assert.Equal(t, "second failure", lastError)
}

func TestBackoffDoubles(t *testing.T) {
	assert.Equal(t, domain.BaseBackoff, domain.Backoff(0))
	assert.Equal(t, 2*domain.BaseBackoff, domain.Backoff(1))
	assert.Equal(t, 4*domain.BaseBackoff, domain.Backoff(2))
	assert.Equal(t, 16*domain.BaseBackoff, domain.Backoff(4))
}
