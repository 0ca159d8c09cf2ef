package expense

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	records []Record
	err     error
}

func (s *fakeStore) Insert(_ context.Context, record Record) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

func (s *fakeStore) MonthlyTotals(context.Context, int, time.Month) ([]CategoryTotal, error) {
	return nil, nil
}

type fakeSheet struct {
	records []Record
	err     error
}

func (s *fakeSheet) AppendExpense(_ context.Context, record Record) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

func validSubmission() Submission {
	return Submission{
		ImageID:  "IMG1",
		ImageURL: "https://res.example.com/IMG1.jpg",
		Category: CategoryFood,
		Amount:   250.50,
		SpentOn:  time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		Members:  []string{"user1", "user2"},
	}
}

func TestSubmitPersistsAndMirrors(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	sheet := &fakeSheet{}
	svc := NewService(nil, store, sheet)

	record, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "IMG1", record.ImageID)
	assert.Equal(t, CategoryFood, record.Category)
	assert.False(t, record.CreatedAt.IsZero())

	require.Len(t, store.records, 1)
	require.Len(t, sheet.records, 1)
	assert.Equal(t, record.ID, store.records[0].ID)
	assert.Equal(t, record.ID, sheet.records[0].ID)
}

func TestSubmitValidation(t *testing.T) {
	t.Parallel()

	cases := map[string]func(*Submission){
		"missing image id": func(s *Submission) { s.ImageID = "" },
		"bad category":     func(s *Submission) { s.Category = "travel" },
		"zero amount":      func(s *Submission) { s.Amount = 0 },
		"negative amount":  func(s *Submission) { s.Amount = -10 },
		"zero date":        func(s *Submission) { s.SpentOn = time.Time{} },
		"bad image url":    func(s *Submission) { s.ImageURL = "not a url" },
		"empty member id":  func(s *Submission) { s.Members = []string{"user1", ""} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			store := &fakeStore{}
			svc := NewService(nil, store, nil)

			sub := validSubmission()
			mutate(&sub)

			_, err := svc.Submit(context.Background(), sub)
			require.Error(t, err)
			assert.Empty(t, store.records)
		})
	}
}

func TestSubmitWithoutCollaboratorsSucceeds(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, nil, nil)
	record, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
}

func TestSubmitStoreFailureIsFatal(t *testing.T) {
	t.Parallel()

	store := &fakeStore{err: errors.New("connection reset")}
	sheet := &fakeSheet{}
	svc := NewService(nil, store, sheet)

	_, err := svc.Submit(context.Background(), validSubmission())
	require.Error(t, err)
	assert.Empty(t, sheet.records, "sheet must not be written when the insert fails")
}

func TestSubmitSheetFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	sheet := &fakeSheet{err: errors.New("quota exceeded")}
	svc := NewService(nil, store, sheet)

	record, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	require.Len(t, store.records, 1)
	assert.Equal(t, record.ID, store.records[0].ID)
}
