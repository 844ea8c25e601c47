package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"aurabot/models"
	"aurabot/service"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// CorruptSuffix is appended to a ledger file that failed to parse before it is replaced
const CorruptSuffix = ".corrupt"

// FileStorage persists the ledger as a single JSON object keyed by Discord ID:
//
//	{"<id>": {"aura": 120, "pendingBattle": {"challenger": "<id>", "amount": 20}}}
type FileStorage struct {
	path string
}

// NewFileStorage creates a file-backed ledger storage at path
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the location of the ledger file
func (s *FileStorage) Path() string {
	return s.path
}

// Load reads every record in file order. A missing file is an empty ledger.
func (s *FileStorage) Load(ctx context.Context) ([]*models.User, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.WithField("path", s.path).Info("Ledger file not found, starting empty")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger file %s: %w", s.path, err)
	}
	return decodeLedger(data)
}

// Save replaces the ledger file with users, writing to a temporary file first
func (s *FileStorage) Save(ctx context.Context, users []*models.User) error {
	data, err := encodeLedger(users)
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}
	return s.writeAtomic(data)
}

// Reset moves an unreadable ledger file aside and starts a new empty one
func (s *FileStorage) Reset(ctx context.Context) error {
	corruptPath := s.path + CorruptSuffix
	if err := os.Rename(s.path, corruptPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to move corrupt ledger aside: %w", err)
	}
	log.WithFields(log.Fields{
		"path":     s.path,
		"moved_to": corruptPath,
	}).Warn("Replaced corrupt ledger file with an empty ledger")
	return s.writeAtomic([]byte("{}"))
}

func (s *FileStorage) writeAtomic(data []byte) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace ledger file: %w", err)
	}
	return nil
}

func decodeLedger(data []byte) ([]*models.User, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: ledger file is not valid JSON", service.ErrStorageCorrupt)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: ledger file must hold a JSON object", service.ErrStorageCorrupt)
	}

	var users []*models.User
	var decodeErr error
	root.ForEach(func(key, value gjson.Result) bool {
		user, err := decodeRecord(key.String(), value)
		if err != nil {
			decodeErr = err
			return false
		}
		users = append(users, user)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return users, nil
}

func decodeRecord(discordID string, value gjson.Result) (*models.User, error) {
	if discordID == "" || !value.IsObject() {
		return nil, fmt.Errorf("%w: malformed record %q", service.ErrStorageCorrupt, discordID)
	}

	aura, err := integerField(value.Get("aura"))
	if err != nil {
		return nil, fmt.Errorf("%w: record %s: aura %v", service.ErrStorageCorrupt, discordID, err)
	}
	user := &models.User{DiscordID: discordID, Balance: aura}

	pending := value.Get("pendingBattle")
	if !pending.Exists() || pending.Type == gjson.Null {
		return user, nil
	}
	challenger := pending.Get("challenger")
	if !pending.IsObject() || challenger.Type != gjson.String || challenger.String() == "" {
		return nil, fmt.Errorf("%w: record %s: malformed pendingBattle", service.ErrStorageCorrupt, discordID)
	}
	amount, err := integerField(pending.Get("amount"))
	if err != nil {
		return nil, fmt.Errorf("%w: record %s: pendingBattle amount %v", service.ErrStorageCorrupt, discordID, err)
	}
	user.Challenge = models.NewChallenge(challenger.String(), amount)
	return user, nil
}

func integerField(field gjson.Result) (int64, error) {
	if field.Type != gjson.Number {
		return 0, fmt.Errorf("must be a number, got %q", field.Raw)
	}
	n, err := strconv.ParseInt(field.Raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("must be an integer, got %s", field.Raw)
	}
	return n, nil
}

type pendingBattleRecord struct {
	Challenger string `json:"challenger"`
	Amount     int64  `json:"amount"`
}

type auraRecord struct {
	Aura          int64                `json:"aura"`
	PendingBattle *pendingBattleRecord `json:"pendingBattle,omitempty"`
}

// ledgerDocument marshals users as one object whose keys keep the slice order
type ledgerDocument []*models.User

func (d ledgerDocument) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, user := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(user.DiscordID)
		if err != nil {
			return nil, err
		}
		record := auraRecord{Aura: user.Balance}
		if challengerID, amount, ok := user.Challenge.Pending(); ok {
			record.PendingBattle = &pendingBattleRecord{Challenger: challengerID, Amount: amount}
		}
		value, err := json.Marshal(record)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeLedger(users []*models.User) ([]byte, error) {
	return json.MarshalIndent(ledgerDocument(users), "", "  ")
}
