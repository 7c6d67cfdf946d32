package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/filedrop/internal/config"
	"github.com/spec-kit/filedrop/internal/domain"
	"github.com/spec-kit/filedrop/internal/observability"
	apperrors "github.com/spec-kit/filedrop/pkg/util"
)

func newTestIssuer(store *fakeTicketStore, presigner *fakePresigner) *IssuerService {
	cfg := config.TicketConfig{MaxFileSizeMB: 10, URLTTLSeconds: 300}
	return NewIssuerService(cfg, IssuerDependencies{
		TicketRepo: store,
		Presigner:  presigner,
		Metrics:    observability.NewMetrics(),
		Logger:     zap.NewNop(),
	})
}

func TestIssueStoresActiveTicketAndReturnsUploadURL(t *testing.T) {
	store := newFakeTicketStore()
	presigner := &fakePresigner{}
	issuer := newTestIssuer(store, presigner)

	result, err := issuer.Issue(context.Background(), IssueInput{
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		SizeBytes:   2048,
	})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if result.TicketID == "" {
		t.Fatal("expected a ticket id")
	}
	if result.UploadURL != "https://storage.example/upload/"+result.TicketID {
		t.Fatalf("unexpected upload URL: %s", result.UploadURL)
	}

	ticket, err := store.GetByID(context.Background(), result.TicketID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if ticket.State != domain.TicketStateActive {
		t.Fatalf("new ticket state = %s, want ACTIVE", ticket.State)
	}
	if ticket.OriginalName != "report.pdf" || ticket.ContentType != "application/pdf" || ticket.SizeBytes != 2048 {
		t.Fatalf("stored metadata mismatch: %+v", ticket)
	}
}

func TestIssueSubstitutesDefaults(t *testing.T) {
	store := newFakeTicketStore()
	issuer := newTestIssuer(store, &fakePresigner{})

	result, err := issuer.Issue(context.Background(), IssueInput{})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	ticket, err := store.GetByID(context.Background(), result.TicketID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if ticket.OriginalName != "downloaded_file" {
		t.Fatalf("default filename = %q", ticket.OriginalName)
	}
	if ticket.ContentType != "application/octet-stream" {
		t.Fatalf("default content type = %q", ticket.ContentType)
	}
}

func TestIssueSizeBoundary(t *testing.T) {
	limit := int64(10) * 1024 * 1024

	t.Run("exactly at the cap succeeds", func(t *testing.T) {
		store := newFakeTicketStore()
		issuer := newTestIssuer(store, &fakePresigner{})
		if _, err := issuer.Issue(context.Background(), IssueInput{SizeBytes: limit}); err != nil {
			t.Fatalf("Issue at limit returned error: %v", err)
		}
	})

	t.Run("one byte over is rejected with no store write", func(t *testing.T) {
		store := newFakeTicketStore()
		issuer := newTestIssuer(store, &fakePresigner{})
		_, err := issuer.Issue(context.Background(), IssueInput{SizeBytes: limit + 1})
		de := apperrors.ToDomainError(err)
		if de == nil || de.Code != "VALIDATION_FAILED" {
			t.Fatalf("expected VALIDATION_FAILED, got %v", err)
		}
		if !strings.Contains(de.Message, "10 MB") {
			t.Fatalf("unexpected message: %s", de.Message)
		}
		if store.createCount() != 0 {
			t.Fatalf("store was written %d times, want 0", store.createCount())
		}
	})

	t.Run("negative size is rejected", func(t *testing.T) {
		store := newFakeTicketStore()
		issuer := newTestIssuer(store, &fakePresigner{})
		_, err := issuer.Issue(context.Background(), IssueInput{SizeBytes: -1})
		if de := apperrors.ToDomainError(err); de == nil || de.Code != "VALIDATION_FAILED" {
			t.Fatalf("expected VALIDATION_FAILED, got %v", err)
		}
	})
}

func TestIssueStoreFailureProducesNoAuthorization(t *testing.T) {
	store := newFakeTicketStore()
	store.failCreate = errStoreDown
	presigner := &fakePresigner{}
	issuer := newTestIssuer(store, presigner)

	_, err := issuer.Issue(context.Background(), IssueInput{SizeBytes: 1})
	if de := apperrors.ToDomainError(err); de == nil || de.Code != "INTERNAL_ERROR" {
		t.Fatalf("expected INTERNAL_ERROR, got %v", err)
	}
	if len(presigner.uploadKeys) != 0 {
		t.Fatal("no upload authorization may be generated when the metadata write fails")
	}
}

func TestIssuePresignFailureLeavesOrphanedActiveTicket(t *testing.T) {
	store := newFakeTicketStore()
	presigner := &fakePresigner{failUpload: errors.New("signer down")}
	issuer := newTestIssuer(store, presigner)

	_, err := issuer.Issue(context.Background(), IssueInput{SizeBytes: 1})
	if de := apperrors.ToDomainError(err); de == nil || de.Code != "INTERNAL_ERROR" {
		t.Fatalf("expected INTERNAL_ERROR, got %v", err)
	}
	// The metadata write is not rolled back; the record stays ACTIVE for
	// external housekeeping.
	if store.createCount() != 1 {
		t.Fatalf("store writes = %d, want 1", store.createCount())
	}
}
