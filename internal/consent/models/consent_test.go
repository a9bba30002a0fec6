package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "wellbuddie/pkg/domain"
	dErrors "wellbuddie/pkg/domain-errors"
	"wellbuddie/pkg/testutil"
)

func boolPtr(b bool) *bool { return &b }

func TestCanProceed_AllCombinations(t *testing.T) {
	for mask := 0; mask < 16; mask++ {
		prefs := Preferences{
			DataCollection:           mask&1 != 0,
			AnonymizedAnalytics:      mask&2 != 0,
			CommunicationPreferences: mask&4 != 0,
			ThirdPartySharing:        mask&8 != 0,
		}
		want := prefs.DataCollection && prefs.AnonymizedAnalytics
		assert.Equal(t, want, CanProceed(Record{Preferences: prefs}), "%+v", prefs)
	}
}

func TestCanProceed_OnlyCommunicationPreferences(t *testing.T) {
	r := Record{Preferences: Preferences{CommunicationPreferences: true}}
	assert.False(t, CanProceed(r))

	err := Require(r)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeMissingConsent))
}

func TestUpdate(t *testing.T) {
	subject := id.NewSubjectID()
	created := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	later := created.Add(72 * time.Hour)
	existing := NewRecord(subject, Preferences{DataCollection: true}, created)

	testutil.Given(t, "a patch granting analytics", func(t *testing.T) {
		next := Update(existing, Patch{AnonymizedAnalytics: boolPtr(true)}, later)

		testutil.Then(t, "the flag is merged and others kept", func(t *testing.T) {
			assert.True(t, next.DataCollection)
			assert.True(t, next.AnonymizedAnalytics)
			assert.False(t, next.ThirdPartySharing)
			assert.True(t, CanProceed(next))
		})
		testutil.Then(t, "consent date is untouched and last updated moves", func(t *testing.T) {
			assert.Equal(t, created, next.ConsentDate)
			assert.Equal(t, later, next.LastUpdated)
		})
		testutil.Then(t, "the existing value is not modified", func(t *testing.T) {
			assert.False(t, existing.AnonymizedAnalytics)
			assert.Equal(t, created, existing.LastUpdated)
		})
	})

	testutil.Given(t, "an empty patch", func(t *testing.T) {
		next := Update(existing, Patch{}, later)
		assert.Equal(t, existing.Preferences, next.Preferences)
		assert.Equal(t, later, next.LastUpdated)
	})
}

func TestPatchFrom(t *testing.T) {
	prefs := Preferences{DataCollection: true, ThirdPartySharing: true}
	p := PatchFrom(prefs)
	assert.False(t, p.IsEmpty())

	got := Update(Record{Preferences: Preferences{AnonymizedAnalytics: true}}, p, time.Now())
	assert.Equal(t, prefs, got.Preferences)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, Status{}, StatusOf(nil))

	r := NewRecord(id.NewSubjectID(), Preferences{DataCollection: true, AnonymizedAnalytics: true}, time.Now())
	s := StatusOf(&r)
	assert.True(t, s.CanProceed)
	assert.Same(t, &r, s.Consent)
}

func TestItems(t *testing.T) {
	got := Items()
	require.Len(t, got, 4)
	assert.True(t, got[0].Required)
	assert.True(t, got[1].Required)
	assert.False(t, got[2].Required)
	assert.False(t, got[3].Required)

	got[0].Details[0] = "changed"
	assert.Equal(t, "Your PHQ-9 and GAD-7 assessment responses", Items()[0].Details[0])
}
