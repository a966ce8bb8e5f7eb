package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/KirthanNB/Zchedule.ai/internal"
)

// FileStorage keeps profiles and schedules in memory, backed by two JSON
// files. Profile writes go straight to disk; schedules are written back by a
// debounced worker.
type FileStorage struct {
	profiles      map[string]*internal.UserProfile      // userID -> profile
	schedules     map[string]*internal.ScheduleRecord   // id -> record
	userSchedules map[string][]*internal.ScheduleRecord // userID -> records (newest first)
	mu            sync.RWMutex
	profilesFile  string
	schedulesFile string
	saveChan      chan struct{}
	shutdownChan  chan struct{}
	closeOnce     sync.Once
	saveDelay     time.Duration
	logger        internal.Logger
}

func NewFileStorage(profilesFile, schedulesFile string, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		profiles:      make(map[string]*internal.UserProfile),
		schedules:     make(map[string]*internal.ScheduleRecord),
		userSchedules: make(map[string][]*internal.ScheduleRecord),
		profilesFile:  profilesFile,
		schedulesFile: schedulesFile,
		saveChan:      make(chan struct{}, 1),
		shutdownChan:  make(chan struct{}),
		saveDelay:     500 * time.Millisecond,
		logger:        logger,
	}

	if err := s.loadProfiles(); err != nil {
		logger.Errorf("storage: failed to load profiles: %v", err)
		return nil, err
	}
	if err := s.loadSchedules(); err != nil {
		logger.Errorf("storage: failed to load schedules: %v", err)
		return nil, err
	}

	go s.saveWorker()

	return s, nil
}

func decodeJSONFile(path string, v interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (s *FileStorage) loadProfiles() error {
	var profiles []*internal.UserProfile
	if err := decodeJSONFile(s.profilesFile, &profiles); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range profiles {
		if p == nil || p.UserID == "" {
			continue
		}
		s.profiles[p.UserID] = p
	}
	return nil
}

func (s *FileStorage) loadSchedules() error {
	var records []*internal.ScheduleRecord
	if err := decodeJSONFile(s.schedulesFile, &records); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.schedules[r.ID] = r
		s.userSchedules[r.UserID] = append(s.userSchedules[r.UserID], r)
	}
	for userID := range s.userSchedules {
		list := s.userSchedules[userID]
		sort.Slice(list, func(i, j int) bool {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		})
	}
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) saveSchedules() error {
	s.mu.RLock()
	records := make([]*internal.ScheduleRecord, 0, len(s.schedules))
	for _, r := range s.schedules {
		records = append(records, r)
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return atomicWriteFileJSON(s.schedulesFile, records)
}

func (s *FileStorage) saveWorker() {
	timer := time.NewTimer(s.saveDelay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-s.saveChan:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := s.saveSchedules(); err != nil {
				s.logger.Errorf("storage: error saving schedules: %v", err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

// Close stops the worker and flushes pending schedules synchronously.
func (s *FileStorage) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.shutdownChan)
		err = s.saveSchedules()
	})
	return err
}

// --- ProfileRepository ---
func (s *FileStorage) GetProfile(ctx context.Context, userID string) (*internal.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	cp.FixedCommitments = append([]internal.FixedCommitment(nil), p.FixedCommitments...)
	return &cp, nil
}

// SaveProfile replaces the profile in memory and rewrites the profiles file
// immediately.
func (s *FileStorage) SaveProfile(ctx context.Context, p *internal.UserProfile) error {
	if p == nil || p.UserID == "" {
		return errors.New("storage: profile requires a user_id")
	}
	cp := *p
	cp.FixedCommitments = append([]internal.FixedCommitment(nil), nonNilCommitments(p.FixedCommitments)...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[cp.UserID] = &cp
	profiles := make([]*internal.UserProfile, 0, len(s.profiles))
	for _, v := range s.profiles {
		profiles = append(profiles, v)
	}

	sort.Slice(profiles, func(i, j int) bool { return profiles[i].UserID < profiles[j].UserID })
	return atomicWriteFileJSON(s.profilesFile, profiles)
}

// --- ScheduleRepository ---
func (s *FileStorage) SaveSchedule(ctx context.Context, rec *internal.ScheduleRecord) error {
	if rec == nil || rec.ID == "" {
		return errors.New("storage: schedule record requires an id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.schedules[rec.ID]; exists {
		return errors.New("storage: duplicate schedule id " + rec.ID)
	}
	s.schedules[rec.ID] = rec
	// newest first
	s.userSchedules[rec.UserID] = append([]*internal.ScheduleRecord{rec}, s.userSchedules[rec.UserID]...)
	select {
	case s.saveChan <- struct{}{}:
	default:
	}
	return nil
}

func (s *FileStorage) ListSchedules(ctx context.Context, userID string) ([]internal.ScheduleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.userSchedules[userID]
	if !ok {
		return []internal.ScheduleRecord{}, nil
	}
	out := make([]internal.ScheduleRecord, len(list))
	for i, r := range list {
		out[i] = *r
	}
	return out, nil
}

// --- Compile-time assertions ---
var _ Store = (*FileStorage)(nil)
