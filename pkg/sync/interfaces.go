package sync

//go:generate mockgen -destination=mock_sync.go -package=sync github.com/vantix/biosync/pkg/sync HRStore,TerminalSession

import (
	"context"

	"github.com/vantix/biosync/pkg/models"
)

// HRStore is the slice of the authoritative HR system the engine needs.
type HRStore interface {
	ListIdentities(ctx context.Context) ([]models.Identity, error)
	UpdateDeviceID(ctx context.Context, identityKey string, deviceID int) error
	RecordSyncHistory(ctx context.Context, entry *models.SyncHistoryEntry) error
}

// TerminalSession is one open, mutation-safe session against a terminal.
// *terminal.Session satisfies it; tests substitute mocks.
type TerminalSession interface {
	UpsertIdentity(ctx context.Context, identity *models.Identity, slots []models.FingerSlot) error
	ReadUserList(ctx context.Context) ([]models.TerminalUserRecord, error)
	ReadAllTemplates(ctx context.Context) ([]models.TemplateRecord, error)
	ReadTemplate(ctx context.Context, internalHandle, fingerIndex int) (models.TemplateRecord, error)
	Close(ctx context.Context)
}

// SessionOpener opens a ready session against one terminal, or fails
// without leaving anything open.
type SessionOpener func(ctx context.Context, cfg *models.TerminalConfig) (TerminalSession, error)
