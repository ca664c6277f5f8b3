package activity

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

var epoch = time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

func TestRecordActivity_AutoRegistersViewer(t *testing.T) {
	t.Parallel()

	r := New(clockwork.NewFakeClockAt(epoch), Options{})

	a := r.RecordActivity(domain.CollaboratorActivity{
		UserID: "dana",
		Kind:   domain.ActivityEditing,
		TermID: domain.Ptr("ברז"),
	})
	assert.Equal(t, epoch, a.StartedAt)
	assert.Equal(t, domain.ActivityInProgress, a.Status)

	info, ok := r.Collaborator("dana")
	require.True(t, ok)
	assert.Equal(t, "dana", info.Name)
	assert.Equal(t, domain.RoleViewer, info.Role)
	require.NotNil(t, info.CurrentActivity)
	assert.Equal(t, domain.ActivityEditing, info.CurrentActivity.Kind)
	assert.Empty(t, info.RecentChanges, "activities go to the global log only")
	assert.Len(t, r.ActivityLog("dana"), 1)
}

func TestRegister_UpdatesNameAndRole(t *testing.T) {
	t.Parallel()

	r := New(clockwork.NewFakeClockAt(epoch), Options{})
	r.RecordActivity(domain.CollaboratorActivity{UserID: "dana", Kind: domain.ActivityReviewing})

	info := r.Register("dana", "Dana K.", domain.RoleEditor)
	assert.Equal(t, "Dana K.", info.Name)
	assert.Equal(t, domain.RoleEditor, info.Role)
	assert.NotNil(t, info.CurrentActivity, "registration keeps current activity")
}

func TestActive_Window(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(epoch)
	r := New(clock, Options{})

	r.Register("old", "", domain.RoleEditor)
	clock.Advance(10 * time.Minute)
	r.Register("new", "", domain.RoleEditor)

	active := r.Active(0)
	require.Len(t, active, 2)
	assert.Equal(t, "new", active[0].UserID)

	clock.Advance(6 * time.Minute)
	active = r.Active(DefaultActiveWindow)
	require.Len(t, active, 1)
	assert.Equal(t, "new", active[0].UserID)
}

func TestRecordChange_RingDropsOldest(t *testing.T) {
	t.Parallel()

	r := New(clockwork.NewFakeClockAt(epoch), Options{ChangeCapacity: 3})

	for i := 0; i < 5; i++ {
		r.RecordChange("dana", domain.TermChange{TermID: fmt.Sprint(i)})
	}

	info, ok := r.Collaborator("dana")
	require.True(t, ok)
	require.Len(t, info.RecentChanges, 3)
	assert.Equal(t, "4", info.RecentChanges[0].TermID, "newest first")
	assert.Equal(t, "2", info.RecentChanges[2].TermID)
	assert.Empty(t, r.ActivityLog(""), "changes do not enter the global log")
}

func TestActivityLog_BoundedNewestFirst(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(epoch)
	r := New(clock, Options{LogCapacity: 4})

	for i := 0; i < 6; i++ {
		clock.Advance(time.Second)
		user := "a"
		if i%2 == 1 {
			user = "b"
		}
		r.RecordActivity(domain.CollaboratorActivity{UserID: user, Kind: domain.ActivityComparing, TermID: domain.Ptr(fmt.Sprint(i))})
	}

	all := r.ActivityLog("")
	require.Len(t, all, 4)
	assert.Equal(t, "5", *all[0].TermID)
	assert.Equal(t, "2", *all[3].TermID)

	onlyB := r.ActivityLog("b")
	require.Len(t, onlyB, 2)
	assert.Equal(t, "5", *onlyB[0].TermID)
	assert.Equal(t, "3", *onlyB[1].TermID)
}

func TestRecent_FiltersByTermKindAndTime(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(epoch)
	r := New(clock, Options{})

	r.RecordActivity(domain.CollaboratorActivity{UserID: "u1", Kind: domain.ActivityEditing, TermID: domain.Ptr("ברז")})
	clock.Advance(20 * time.Minute)
	r.RecordActivity(domain.CollaboratorActivity{UserID: "u2", Kind: domain.ActivityEditing, TermID: domain.Ptr("ברז")})
	r.RecordActivity(domain.CollaboratorActivity{UserID: "u3", Kind: domain.ActivityReviewing, TermID: domain.Ptr("ברז")})
	r.RecordActivity(domain.CollaboratorActivity{UserID: "u4", Kind: domain.ActivityEditing, TermID: domain.Ptr("צינור")})

	got := r.Recent("ברז", domain.ActivityEditing, epoch)
	require.Len(t, got, 2)
	assert.Equal(t, "u2", got[0].UserID)

	got = r.Recent("ברז", domain.ActivityEditing, epoch.Add(time.Minute))
	require.Len(t, got, 1)
	assert.Equal(t, "u2", got[0].UserID)
}
