package dao

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/campushub/campus-api/internal/domain"
)

var testDB *gorm.DB

// TestMain spins up a throwaway Postgres container. `go test -short` skips
// everything in this package.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("dockertest.NewPool -> %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=campus",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=campus_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("pool.RunWithOptions -> %v", err)
	}

	dsn := fmt.Sprintf(
		"postgres://campus:secret@%s/campus_test?sslmode=disable",
		resource.GetHostPort("5432/tcp"),
	)

	if err = pool.Retry(func() error {
		db, openErr := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if openErr != nil {
			return openErr
		}

		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return dbErr
		}
		if pingErr := sqlDB.Ping(); pingErr != nil {
			return pingErr
		}

		testDB = db

		return nil
	}); err != nil {
		log.Fatalf("could not connect to postgres: %v", err)
	}

	if err = InitTables(testDB); err != nil {
		log.Fatalf("dao.InitTables -> %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Printf("pool.Purge -> %v", err)
	}

	os.Exit(code)
}

func requireDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testDB == nil {
		t.Skip("database tests need docker")
	}

	return testDB
}

func createTestEvent(t *testing.T, capacity *int) Event {
	t.Helper()

	event := Event{
		Title:             "Test Event",
		ParticipationType: "both",
		Capacity:          capacity,
		OrganizerID:       1,
	}
	require.NoError(t, testDB.Create(&event).Error)

	return event
}

func intPtr(n int) *int {
	return &n
}

func TestRegistrationDAO_Register_Solo(t *testing.T) {
	db := requireDB(t)
	d := NewRegistrationDAO(db)
	event := createTestEvent(t, intPtr(10))

	teamID, err := d.Register(context.Background(), RegistrationPlan{
		EventID: event.ID,
		UserID:  1001,
	})

	require.NoError(t, err)
	assert.Nil(t, teamID)

	var updated Event
	require.NoError(t, db.First(&updated, event.ID).Error)
	assert.Equal(t, 1, updated.ParticipantsCount)
}

func TestRegistrationDAO_Register_CapacityGate(t *testing.T) {
	db := requireDB(t)
	d := NewRegistrationDAO(db)
	event := createTestEvent(t, intPtr(1))

	_, err := d.Register(context.Background(), RegistrationPlan{EventID: event.ID, UserID: 1101})
	require.NoError(t, err)

	_, err = d.Register(context.Background(), RegistrationPlan{EventID: event.ID, UserID: 1102})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEventFull))

	var updated Event
	require.NoError(t, db.First(&updated, event.ID).Error)
	assert.Equal(t, 1, updated.ParticipantsCount)
}

func TestRegistrationDAO_Register_UnlimitedCapacity(t *testing.T) {
	db := requireDB(t)
	d := NewRegistrationDAO(db)
	event := createTestEvent(t, nil)

	for userID := uint(1201); userID <= 1205; userID++ {
		_, err := d.Register(context.Background(), RegistrationPlan{EventID: event.ID, UserID: userID})
		require.NoError(t, err)
	}

	var updated Event
	require.NoError(t, db.First(&updated, event.ID).Error)
	assert.Equal(t, 5, updated.ParticipantsCount)
}

func TestRegistrationDAO_Register_Duplicate(t *testing.T) {
	db := requireDB(t)
	d := NewRegistrationDAO(db)
	event := createTestEvent(t, intPtr(10))

	_, err := d.Register(context.Background(), RegistrationPlan{EventID: event.ID, UserID: 1301})
	require.NoError(t, err)

	_, err = d.Register(context.Background(), RegistrationPlan{EventID: event.ID, UserID: 1301})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyRegistered))

	// The rejected attempt must not leak into the counter.
	var updated Event
	require.NoError(t, db.First(&updated, event.ID).Error)
	assert.Equal(t, 1, updated.ParticipantsCount)
}

func TestRegistrationDAO_Register_EventNotFound(t *testing.T) {
	db := requireDB(t)
	d := NewRegistrationDAO(db)

	_, err := d.Register(context.Background(), RegistrationPlan{EventID: 999999, UserID: 1401})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEventNotFound))
}

func TestRegistrationDAO_Register_TeamCreateAndJoin(t *testing.T) {
	db := requireDB(t)
	d := NewRegistrationDAO(db)
	event := createTestEvent(t, intPtr(10))

	teamID, err := d.Register(context.Background(), RegistrationPlan{
		EventID: event.ID,
		UserID:  1501,
		NewTeam: &Team{EventID: event.ID, Name: "Gophers", LeaderID: 1501},
		Members: []TeamMember{
			{UserID: 1502, Name: "Member One", Email: "one@campus.edu", Status: domain.MemberStatusPending},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, teamID)

	var team Team
	require.NoError(t, db.First(&team, *teamID).Error)
	assert.Len(t, team.Code, domain.JoinCodeLength)
	assert.Equal(t, uint(1501), team.LeaderID)

	var members []TeamMember
	require.NoError(t, db.Where("team_id = ?", team.ID).Find(&members).Error)
	require.Len(t, members, 1)
	assert.Equal(t, uint(1502), members[0].UserID)

	joinedTeamID, err := d.Register(context.Background(), RegistrationPlan{
		EventID:  event.ID,
		UserID:   1503,
		JoinCode: team.Code,
	})
	require.NoError(t, err)
	require.NotNil(t, joinedTeamID)
	assert.Equal(t, *teamID, *joinedTeamID)
}

func TestRegistrationDAO_Register_BadJoinCode(t *testing.T) {
	db := requireDB(t)
	d := NewRegistrationDAO(db)
	event := createTestEvent(t, intPtr(10))

	_, err := d.Register(context.Background(), RegistrationPlan{
		EventID:  event.ID,
		UserID:   1601,
		JoinCode: "NOSUCH",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTeamCodeNotFound))

	// A failed join must not consume a slot.
	var updated Event
	require.NoError(t, db.First(&updated, event.ID).Error)
	assert.Equal(t, 0, updated.ParticipantsCount)
}

func TestRegistrationDAO_Register_JoinCodeScopedToEvent(t *testing.T) {
	db := requireDB(t)
	d := NewRegistrationDAO(db)
	eventA := createTestEvent(t, intPtr(10))
	eventB := createTestEvent(t, intPtr(10))

	teamID, err := d.Register(context.Background(), RegistrationPlan{
		EventID: eventA.ID,
		UserID:  1701,
		NewTeam: &Team{EventID: eventA.ID, Name: "Scoped", LeaderID: 1701},
	})
	require.NoError(t, err)

	var team Team
	require.NoError(t, db.First(&team, *teamID).Error)

	_, err = d.Register(context.Background(), RegistrationPlan{
		EventID:  eventB.ID,
		UserID:   1702,
		JoinCode: team.Code,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTeamCodeNotFound))
}

func TestRegistrationDAO_Register_TeamNameTaken(t *testing.T) {
	db := requireDB(t)
	d := NewRegistrationDAO(db)
	event := createTestEvent(t, intPtr(10))

	_, err := d.Register(context.Background(), RegistrationPlan{
		EventID: event.ID,
		UserID:  1801,
		NewTeam: &Team{EventID: event.ID, Name: "Taken", LeaderID: 1801},
	})
	require.NoError(t, err)

	_, err = d.Register(context.Background(), RegistrationPlan{
		EventID: event.ID,
		UserID:  1802,
		NewTeam: &Team{EventID: event.ID, Name: "Taken", LeaderID: 1802},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTeamNameTaken))
}

func TestRegistrationDAO_Register_MemberAlreadyRegistered(t *testing.T) {
	db := requireDB(t)
	d := NewRegistrationDAO(db)
	event := createTestEvent(t, intPtr(10))

	_, err := d.Register(context.Background(), RegistrationPlan{EventID: event.ID, UserID: 1901})
	require.NoError(t, err)

	_, err = d.Register(context.Background(), RegistrationPlan{
		EventID: event.ID,
		UserID:  1902,
		NewTeam: &Team{EventID: event.ID, Name: "Poachers", LeaderID: 1902},
		Members: []TeamMember{
			{UserID: 1901, Name: "Taken Member", Email: "taken@campus.edu", Status: domain.MemberStatusPending},
		},
	})

	require.Error(t, err)

	var membersErr *domain.MembersAlreadyRegisteredError
	require.True(t, errors.As(err, &membersErr))
	assert.Equal(t, []uint{1901}, membersErr.UserIDs)

	var updated Event
	require.NoError(t, db.First(&updated, event.ID).Error)
	assert.Equal(t, 1, updated.ParticipantsCount)
}

func TestRegistrationDAO_Unregister_Solo(t *testing.T) {
	db := requireDB(t)
	d := NewRegistrationDAO(db)
	event := createTestEvent(t, intPtr(10))

	_, err := d.Register(context.Background(), RegistrationPlan{EventID: event.ID, UserID: 2001})
	require.NoError(t, err)

	require.NoError(t, d.Unregister(context.Background(), event.ID, 2001))

	_, err = d.FindByEventAndUser(context.Background(), event.ID, 2001)
	assert.True(t, errors.Is(err, ErrNotRegistered))

	var updated Event
	require.NoError(t, db.First(&updated, event.ID).Error)
	assert.Equal(t, 0, updated.ParticipantsCount)
}

func TestRegistrationDAO_Unregister_NotRegistered(t *testing.T) {
	db := requireDB(t)
	d := NewRegistrationDAO(db)
	event := createTestEvent(t, intPtr(10))

	err := d.Unregister(context.Background(), event.ID, 2101)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotRegistered))
}

func TestRegistrationDAO_Unregister_LeaderTakesTeamDown(t *testing.T) {
	db := requireDB(t)
	d := NewRegistrationDAO(db)
	event := createTestEvent(t, intPtr(10))

	teamID, err := d.Register(context.Background(), RegistrationPlan{
		EventID: event.ID,
		UserID:  2201,
		NewTeam: &Team{EventID: event.ID, Name: "Doomed", LeaderID: 2201},
		Members: []TeamMember{
			{UserID: 2202, Name: "Member One", Email: "one@campus.edu", Status: domain.MemberStatusPending},
		},
	})
	require.NoError(t, err)

	require.NoError(t, d.Unregister(context.Background(), event.ID, 2201))

	var teamCount int64
	require.NoError(t, db.Model(&Team{}).Where("id = ?", *teamID).Count(&teamCount).Error)
	assert.Zero(t, teamCount)

	var memberCount int64
	require.NoError(t, db.Model(&TeamMember{}).Where("team_id = ?", *teamID).Count(&memberCount).Error)
	assert.Zero(t, memberCount)
}

func TestRegistrationDAO_Unregister_MemberLeavesTeamIntact(t *testing.T) {
	db := requireDB(t)
	d := NewRegistrationDAO(db)
	event := createTestEvent(t, intPtr(10))

	teamID, err := d.Register(context.Background(), RegistrationPlan{
		EventID: event.ID,
		UserID:  2301,
		NewTeam: &Team{EventID: event.ID, Name: "Sticky", LeaderID: 2301},
	})
	require.NoError(t, err)

	var team Team
	require.NoError(t, db.First(&team, *teamID).Error)

	_, err = d.Register(context.Background(), RegistrationPlan{
		EventID:  event.ID,
		UserID:   2302,
		JoinCode: team.Code,
	})
	require.NoError(t, err)

	require.NoError(t, d.Unregister(context.Background(), event.ID, 2302))

	var teamCount int64
	require.NoError(t, db.Model(&Team{}).Where("id = ?", *teamID).Count(&teamCount).Error)
	assert.EqualValues(t, 1, teamCount)

	// The leader's registration survives.
	_, err = d.FindByEventAndUser(context.Background(), event.ID, 2301)
	require.NoError(t, err)
}

func TestRegistrationDAO_Register_FormResponse(t *testing.T) {
	db := requireDB(t)
	d := NewRegistrationDAO(db)
	event := createTestEvent(t, intPtr(10))

	schema := FormSchema{EventID: event.ID, Fields: []byte(`[]`)}
	require.NoError(t, db.Create(&schema).Error)

	_, err := d.Register(context.Background(), RegistrationPlan{
		EventID: event.ID,
		UserID:  2501,
		FormResponse: &FormResponse{
			ID:       "1f0e7f54-8d20-4b56-9c41-2a1a6d6c5a01",
			FormID:   schema.ID,
			UserID:   2501,
			Response: []byte(`{"name":"Ada"}`),
		},
	})
	require.NoError(t, err)

	registration, err := d.FindByEventAndUser(context.Background(), event.ID, 2501)
	require.NoError(t, err)
	require.NotNil(t, registration.FormResponseID)

	var saved FormResponse
	require.NoError(t, db.First(&saved, "id = ?", *registration.FormResponseID).Error)
	assert.Equal(t, uint(2501), saved.UserID)
}

func TestRegistrationDAO_FindByEventAndUser(t *testing.T) {
	db := requireDB(t)
	d := NewRegistrationDAO(db)
	event := createTestEvent(t, intPtr(10))

	teamID, err := d.Register(context.Background(), RegistrationPlan{
		EventID: event.ID,
		UserID:  2401,
		NewTeam: &Team{EventID: event.ID, Name: "Lookup", LeaderID: 2401},
	})
	require.NoError(t, err)

	found, err := d.FindByEventAndUser(context.Background(), event.ID, 2401)

	require.NoError(t, err)
	assert.Equal(t, event.ID, found.EventID)
	assert.Equal(t, uint(2401), found.UserID)
	require.NotNil(t, found.TeamID)
	assert.Equal(t, *teamID, *found.TeamID)
}
