package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/KaramelBytes/resumekit/internal/ai"
	"github.com/KaramelBytes/resumekit/internal/jobs"
	"github.com/KaramelBytes/resumekit/internal/logger"
	"github.com/KaramelBytes/resumekit/internal/resume"
)

const (
	KeyConfig    = "ai-config"
	KeyResumes   = "resumes"
	KeyJobs      = "jobs"
	rawKeyPrefix = "resume-raw:"
)

// RawKey is where the original bytes of an imported binary resume live.
func RawKey(id string) string { return rawKeyPrefix + id }

// Store reads and writes whole collections through a KV.
// Loads never fail: anything absent, unreadable or malformed yields the default.
type Store struct {
	kv KV
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

// KV exposes the backend, mainly for closing Redis connections.
func (s *Store) KV() KV { return s.kv }

// loadBlob reports whether key held JSON that decoded into v.
func (s *Store) loadBlob(ctx context.Context, key string, v any) bool {
	b, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		logger.L().Warn("stored value unreadable, using default", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(b, v); err != nil {
		logger.L().Warn("stored value unparseable, using default", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Store) saveBlob(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, b)
}

// LoadConfig returns the stored provider settings or the defaults.
func (s *Store) LoadConfig(ctx context.Context) ai.Configurations {
	var cfg ai.Configurations
	if !s.loadBlob(ctx, KeyConfig, &cfg) {
		return ai.DefaultConfigurations()
	}
	if err := cfg.Validate(); err != nil {
		logger.L().Warn("stored config has wrong shape, using defaults", zap.Error(err))
		return ai.DefaultConfigurations()
	}
	return cfg
}

// SaveConfig replaces the stored settings.
func (s *Store) SaveConfig(ctx context.Context, cfg ai.Configurations) error {
	return s.saveBlob(ctx, KeyConfig, cfg)
}

// UpdateProviderConfig merges patch into one provider's settings and saves.
// The other provider and the active selection are left unchanged.
func (s *Store) UpdateProviderConfig(ctx context.Context, p ai.Provider, patch ai.ProviderPatch) (ai.Configurations, error) {
	cfg := s.LoadConfig(ctx)
	cur, ok := cfg.Get(p)
	if !ok {
		return cfg, fmt.Errorf("unknown provider %q", p)
	}
	next := cfg.With(p, patch.Apply(cur))
	if err := next.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid %s settings: %w", p, err)
	}
	if err := s.SaveConfig(ctx, next); err != nil {
		return cfg, err
	}
	return next, nil
}

// SetActiveProvider switches the provider used for analysis. It does not
// require the provider to have an API key.
func (s *Store) SetActiveProvider(ctx context.Context, p ai.Provider) (ai.Configurations, error) {
	cfg := s.LoadConfig(ctx)
	if _, ok := cfg.Get(p); !ok {
		return cfg, fmt.Errorf("unknown provider %q", p)
	}
	cfg.ActiveProvider = p
	if err := s.SaveConfig(ctx, cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDocuments returns every saved resume in stored order.
func (s *Store) LoadDocuments(ctx context.Context) []resume.Resume {
	var docs []resume.Resume
	if !s.loadBlob(ctx, KeyResumes, &docs) {
		return []resume.Resume{}
	}
	for i, d := range docs {
		if err := d.Validate(); err != nil {
			logger.L().Warn("stored resumes have wrong shape, ignoring them", zap.Int("index", i), zap.Error(err))
			return []resume.Resume{}
		}
	}
	if docs == nil {
		docs = []resume.Resume{}
	}
	return docs
}

// FindDocument returns the saved resume with id.
func (s *Store) FindDocument(ctx context.Context, id string) (resume.Resume, bool) {
	for _, d := range s.LoadDocuments(ctx) {
		if d.ID == id {
			return d, true
		}
	}
	return resume.Resume{}, false
}

// SaveDocument replaces the resume with the same id, or appends it.
func (s *Store) SaveDocument(ctx context.Context, doc resume.Resume) ([]resume.Resume, error) {
	docs := s.LoadDocuments(ctx)
	if err := doc.Validate(); err != nil {
		return docs, fmt.Errorf("invalid resume: %w", err)
	}
	replaced := false
	for i := range docs {
		if docs[i].ID == doc.ID {
			docs[i] = doc.Clone()
			replaced = true
			break
		}
	}
	if !replaced {
		docs = append(docs, doc.Clone())
	}
	if err := s.saveBlob(ctx, KeyResumes, docs); err != nil {
		return docs, err
	}
	return docs, nil
}

// DeleteDocument removes the resume with id and any raw bytes kept for it.
// Unknown ids are not an error.
func (s *Store) DeleteDocument(ctx context.Context, id string) ([]resume.Resume, error) {
	docs := s.LoadDocuments(ctx)
	kept := make([]resume.Resume, 0, len(docs))
	for _, d := range docs {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	if err := s.saveBlob(ctx, KeyResumes, kept); err != nil {
		return docs, err
	}
	if err := s.kv.Delete(ctx, RawKey(id)); err != nil {
		return kept, err
	}
	return kept, nil
}

// Raw is the original upload of a binary resume.
type Raw struct {
	Format string `json:"format"`
	Data   []byte `json:"data"`
}

// SaveRaw keeps the original bytes of an imported file for export as-is.
func (s *Store) SaveRaw(ctx context.Context, id string, raw Raw) error {
	return s.saveBlob(ctx, RawKey(id), raw)
}

// LoadRaw returns the bytes kept by SaveRaw, if any.
func (s *Store) LoadRaw(ctx context.Context, id string) (Raw, bool) {
	var raw Raw
	if !s.loadBlob(ctx, RawKey(id), &raw) {
		return Raw{}, false
	}
	return raw, true
}

// LoadJobs returns every tracked application in stored order.
func (s *Store) LoadJobs(ctx context.Context) []jobs.Job {
	var list []jobs.Job
	if !s.loadBlob(ctx, KeyJobs, &list) {
		return []jobs.Job{}
	}
	for i, j := range list {
		if err := j.Validate(); err != nil {
			logger.L().Warn("stored jobs have wrong shape, ignoring them", zap.Int("index", i), zap.Error(err))
			return []jobs.Job{}
		}
	}
	if list == nil {
		list = []jobs.Job{}
	}
	return list
}

// FindJob returns the tracked application with id.
func (s *Store) FindJob(ctx context.Context, id string) (jobs.Job, bool) {
	for _, j := range s.LoadJobs(ctx) {
		if j.ID == id {
			return j, true
		}
	}
	return jobs.Job{}, false
}

// SaveJob replaces the job with the same id, or appends it.
func (s *Store) SaveJob(ctx context.Context, job jobs.Job) ([]jobs.Job, error) {
	list := s.LoadJobs(ctx)
	if err := job.Validate(); err != nil {
		return list, fmt.Errorf("invalid job: %w", err)
	}
	replaced := false
	for i := range list {
		if list[i].ID == job.ID {
			list[i] = job
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, job)
	}
	if err := s.saveBlob(ctx, KeyJobs, list); err != nil {
		return list, err
	}
	return list, nil
}

// DeleteJob removes the job with id. Unknown ids are not an error.
func (s *Store) DeleteJob(ctx context.Context, id string) ([]jobs.Job, error) {
	list := s.LoadJobs(ctx)
	kept := make([]jobs.Job, 0, len(list))
	for _, j := range list {
		if j.ID != id {
			kept = append(kept, j)
		}
	}
	if err := s.saveBlob(ctx, KeyJobs, kept); err != nil {
		return list, err
	}
	return kept, nil
}
