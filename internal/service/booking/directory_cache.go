package booking

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/nerveconnect/clinic-api/internal/model"
	"github.com/nerveconnect/clinic-api/internal/repository"
)

const (
	directoryCacheTTL     = 10 * time.Minute
	directoryCacheCleanup = 15 * time.Minute
)

// CachedDirectory memoizes name lookups in front of a DirectoryRepository.
// Directory records are append-only and names resolve to the same record
// forever, so a positive hit never goes stale.
type CachedDirectory struct {
	repo     repository.DirectoryRepository
	patients *cache.Cache
	doctors  *cache.Cache
}

func NewCachedDirectory(repo repository.DirectoryRepository) *CachedDirectory {
	return &CachedDirectory{
		repo:     repo,
		patients: cache.New(directoryCacheTTL, directoryCacheCleanup),
		doctors:  cache.New(directoryCacheTTL, directoryCacheCleanup),
	}
}

func (d *CachedDirectory) FindOrCreatePatient(ctx context.Context, name string) (*model.Patient, error) {
	if hit, ok := d.patients.Get(name); ok {
		return hit.(*model.Patient), nil
	}

	patient, err := d.repo.FindOrCreatePatient(ctx, name)
	if err != nil {
		return nil, err
	}
	d.patients.Set(name, patient, cache.DefaultExpiration)
	return patient, nil
}

func (d *CachedDirectory) FindOrCreateDoctor(ctx context.Context, name string) (*model.Doctor, error) {
	if hit, ok := d.doctors.Get(name); ok {
		return hit.(*model.Doctor), nil
	}

	doctor, err := d.repo.FindOrCreateDoctor(ctx, name)
	if err != nil {
		return nil, err
	}
	d.doctors.Set(name, doctor, cache.DefaultExpiration)
	return doctor, nil
}
