package student

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// EmptyNameError indicates a registration request with a blank name.
type EmptyNameError struct{}

func (e *EmptyNameError) Error() string {
	return "name must not be empty"
}

const (
	// referralAttempts bounds how many codes Register will try before
	// giving up. With 32 bits of randomness per code a second attempt is
	// already vanishingly rare.
	referralAttempts = 5

	bloomCapacity = 100_000
	bloomFPR      = 0.001
)

// Service handles student registration. It keeps a bloom filter of issued
// referral codes to skip doomed inserts; the database unique constraint
// remains the authority, so a filter false positive only costs a regenerate.
type Service struct {
	students Repository

	mu    sync.Mutex
	codes *bloom.BloomFilter
}

// NewService creates a student Service backed by the given repository.
func NewService(students Repository) *Service {
	return &Service{
		students: students,
		codes:    bloom.NewWithEstimates(bloomCapacity, bloomFPR),
	}
}

// Warmup loads every issued referral code into the collision filter.
// Call once at startup, before serving registrations.
func (s *Service) Warmup(ctx context.Context) error {
	existing, err := s.students.ReferralCodes(ctx)
	if err != nil {
		return errors.Wrap(err, "list referral codes")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, code := range existing {
		s.codes.AddString(code)
	}
	return nil
}

// Register validates the name, assigns a fresh unique referral code, and
// persists a new student with zero lifetime spend.
func (s *Service) Register(ctx context.Context, name string) (*Student, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &EmptyNameError{}
	}

	for range referralAttempts {
		code, err := newReferralCode()
		if err != nil {
			return nil, errors.Wrap(err, "generate referral code")
		}
		if s.seen(code) {
			continue
		}

		st := &Student{
			ID:           uuid.New().String(),
			Name:         name,
			ReferralCode: code,
			TotalSpent:   0,
		}
		if err := s.students.Create(ctx, st); err != nil {
			if errors.Is(err, ErrReferralCodeTaken) {
				s.remember(code)
				continue
			}
			return nil, errors.Wrap(err, "create student")
		}

		s.remember(code)
		return st, nil
	}

	return nil, errors.New("exhausted referral code attempts")
}

func (s *Service) seen(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes.TestString(code)
}

func (s *Service) remember(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes.AddString(code)
}

// newReferralCode returns "REF-" followed by 8 uppercase hex characters
// derived from 4 crypto-random bytes.
func newReferralCode() (string, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return "REF-" + strings.ToUpper(hex.EncodeToString(b[:])), nil
}
