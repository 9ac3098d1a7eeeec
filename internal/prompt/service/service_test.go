package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/promptstash/promptstash/internal/access"
	promptModel "github.com/promptstash/promptstash/internal/prompt/model"
	"github.com/promptstash/promptstash/internal/prompt/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	type teamMembership struct {
		TeamID    string          `gorm:"primaryKey;column:team_id"`
		UserID    string          `gorm:"primaryKey;column:user_id"`
		Role      access.TeamRole `gorm:"column:role"`
		CreatedAt time.Time       `gorm:"column:created_at"`
	}

	err = db.AutoMigrate(
		&promptModel.Prompt{},
		&promptModel.Favorite{},
		&teamMembership{},
	)
	require.NoError(t, err)

	return db
}

// memberSource reads team roles straight from the test table.
type memberSource struct {
	db *gorm.DB
}

func (m memberSource) RoleInTeam(ctx context.Context, userID, teamID string) (access.TeamRole, bool, error) {
	var row struct {
		Role access.TeamRole `gorm:"column:role"`
	}
	result := m.db.WithContext(ctx).
		Table("team_memberships").
		Select("role").
		Where("user_id = ? AND team_id = ?", userID, teamID).
		Limit(1).
		Find(&row)
	if result.Error != nil {
		return "", false, result.Error
	}
	if result.RowsAffected == 0 {
		return "", false, nil
	}
	return row.Role, true, nil
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	db := setupTestDB(t)
	repo := repository.New(db)
	resolver := access.NewResolver(memberSource{db: db})
	return New(repo, resolver, db, zap.NewNop().Sugar()), db
}

func addMembership(t *testing.T, db *gorm.DB, teamID, userID string, role access.TeamRole) {
	require.NoError(t, db.Exec(
		"INSERT INTO team_memberships (team_id, user_id, role, created_at) VALUES (?, ?, ?, ?)",
		teamID, userID, role, time.Now(),
	).Error)
}

func actor(id string) access.Actor {
	return access.Actor{ID: id, PlatformRole: access.RoleUser}
}

func strPtr(s string) *string { return &s }

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to private", func(t *testing.T) {
		svc, _ := newTestService(t)

		prompt, err := svc.Create(ctx, actor("u1"), &promptModel.CreatePromptRequest{
			Title: "greeting",
			Body:  "Say hello to {{name}}.",
		})

		require.NoError(t, err)
		assert.Equal(t, access.VisibilityPrivate, prompt.Visibility)
		assert.Nil(t, prompt.TeamID)
		assert.Zero(t, prompt.FavoriteCount)
	})

	t.Run("private prompt cannot carry a team", func(t *testing.T) {
		svc, db := newTestService(t)
		addMembership(t, db, "team1", "u1", access.TeamRoleMember)

		_, err := svc.Create(ctx, actor("u1"), &promptModel.CreatePromptRequest{
			Title:      "greeting",
			Body:       "hi",
			Visibility: access.VisibilityPrivate,
			TeamID:     strPtr("team1"),
		})
		assert.ErrorIs(t, err, access.ErrPrivateTeamResource)
	})

	t.Run("team prompt requires membership", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Create(ctx, actor("u1"), &promptModel.CreatePromptRequest{
			Title:      "greeting",
			Body:       "hi",
			Visibility: access.VisibilityTeam,
			TeamID:     strPtr("team1"),
		})
		assert.ErrorIs(t, err, promptModel.ErrNotTeamMember)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Create(ctx, actor("u1"), &promptModel.CreatePromptRequest{Title: "", Body: "hi"})
		assert.ErrorIs(t, err, promptModel.ErrInvalidTitle)
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("missing and hidden look identical", func(t *testing.T) {
		svc, _ := newTestService(t)

		private, err := svc.Create(ctx, actor("owner"), &promptModel.CreatePromptRequest{
			Title: "secret", Body: "hidden",
		})
		require.NoError(t, err)

		_, errMissing := svc.Get(ctx, actor("u2"), "no-such-id")
		_, errHidden := svc.Get(ctx, actor("u2"), private.ID)

		assert.ErrorIs(t, errMissing, promptModel.ErrPromptNotFound)
		assert.ErrorIs(t, errHidden, promptModel.ErrPromptNotFound)
	})

	t.Run("team member reads team prompt", func(t *testing.T) {
		svc, db := newTestService(t)
		addMembership(t, db, "team1", "owner", access.TeamRoleAdmin)
		addMembership(t, db, "team1", "u2", access.TeamRoleMember)

		prompt, err := svc.Create(ctx, actor("owner"), &promptModel.CreatePromptRequest{
			Title: "shared", Body: "team text", Visibility: access.VisibilityTeam, TeamID: strPtr("team1"),
		})
		require.NoError(t, err)

		got, err := svc.Get(ctx, actor("u2"), prompt.ID)
		require.NoError(t, err)
		assert.Equal(t, prompt.ID, got.ID)
	})

	t.Run("anyone reads public prompt", func(t *testing.T) {
		svc, _ := newTestService(t)

		prompt, err := svc.Create(ctx, actor("owner"), &promptModel.CreatePromptRequest{
			Title: "open", Body: "public text", Visibility: access.VisibilityPublic,
		})
		require.NoError(t, err)

		got, err := svc.Get(ctx, actor("stranger"), prompt.ID)
		require.NoError(t, err)
		assert.Equal(t, prompt.ID, got.ID)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("team admin may edit member prompt", func(t *testing.T) {
		svc, db := newTestService(t)
		addMembership(t, db, "team1", "owner", access.TeamRoleMember)
		addMembership(t, db, "team1", "boss", access.TeamRoleAdmin)

		prompt, err := svc.Create(ctx, actor("owner"), &promptModel.CreatePromptRequest{
			Title: "shared", Body: "v1", Visibility: access.VisibilityTeam, TeamID: strPtr("team1"),
		})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, actor("boss"), prompt.ID, &promptModel.UpdatePromptRequest{
			Body: strPtr("v2"),
		})
		require.NoError(t, err)
		assert.Equal(t, "v2", updated.Body)
	})

	t.Run("plain member may read but not edit", func(t *testing.T) {
		svc, db := newTestService(t)
		addMembership(t, db, "team1", "owner", access.TeamRoleAdmin)
		addMembership(t, db, "team1", "peer", access.TeamRoleMember)

		prompt, err := svc.Create(ctx, actor("owner"), &promptModel.CreatePromptRequest{
			Title: "shared", Body: "v1", Visibility: access.VisibilityTeam, TeamID: strPtr("team1"),
		})
		require.NoError(t, err)

		_, err = svc.Update(ctx, actor("peer"), prompt.ID, &promptModel.UpdatePromptRequest{
			Body: strPtr("v2"),
		})
		assert.ErrorIs(t, err, access.ErrForbidden)
	})

	t.Run("clearing the team downgrades scope", func(t *testing.T) {
		svc, db := newTestService(t)
		addMembership(t, db, "team1", "owner", access.TeamRoleAdmin)

		prompt, err := svc.Create(ctx, actor("owner"), &promptModel.CreatePromptRequest{
			Title: "shared", Body: "v1", Visibility: access.VisibilityTeam, TeamID: strPtr("team1"),
		})
		require.NoError(t, err)

		private := access.VisibilityPrivate
		updated, err := svc.Update(ctx, actor("owner"), prompt.ID, &promptModel.UpdatePromptRequest{
			Visibility: &private,
			ClearTeam:  true,
		})
		require.NoError(t, err)
		assert.Nil(t, updated.TeamID)
		assert.Equal(t, access.VisibilityPrivate, updated.Visibility)
	})
}

// setupFKTestService builds a service on a database that enforces the
// foreign keys collection_items, team_pins, and user_pins carry to prompts.
func setupFKTestService(t *testing.T) (Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open("file::memory:?_fk=1"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&promptModel.Prompt{}, &promptModel.Favorite{}))

	for _, stmt := range []string{
		`CREATE TABLE collection_items (collection_id TEXT NOT NULL, prompt_id TEXT NOT NULL REFERENCES prompts(id), position INTEGER NOT NULL, created_at DATETIME, PRIMARY KEY (collection_id, prompt_id))`,
		`CREATE TABLE team_pins (team_id TEXT NOT NULL, prompt_id TEXT NOT NULL REFERENCES prompts(id), position INTEGER NOT NULL, created_at DATETIME, PRIMARY KEY (team_id, prompt_id))`,
		`CREATE TABLE user_pins (user_id TEXT NOT NULL, prompt_id TEXT NOT NULL REFERENCES prompts(id), position INTEGER NOT NULL, created_at DATETIME, PRIMARY KEY (user_id, prompt_id))`,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}

	repo := repository.New(db)
	resolver := access.NewResolver(memberSource{db: db})
	return New(repo, resolver, db, zap.NewNop().Sugar()), db
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the prompt and every referencing row", func(t *testing.T) {
		svc, db := setupFKTestService(t)

		prompt, err := svc.Create(ctx, actor("alice"), &promptModel.CreatePromptRequest{
			Title: "review", Body: "Review this diff.", Visibility: access.VisibilityPublic,
		})
		require.NoError(t, err)

		_, err = svc.ToggleFavorite(ctx, actor("bob"), prompt.ID)
		require.NoError(t, err)
		require.NoError(t, db.Exec(
			"INSERT INTO collection_items (collection_id, prompt_id, position, created_at) VALUES (?, ?, 1, ?)",
			"c1", prompt.ID, time.Now(),
		).Error)
		require.NoError(t, db.Exec(
			"INSERT INTO team_pins (team_id, prompt_id, position, created_at) VALUES (?, ?, 1, ?)",
			"team1", prompt.ID, time.Now(),
		).Error)
		require.NoError(t, db.Exec(
			"INSERT INTO user_pins (user_id, prompt_id, position, created_at) VALUES (?, ?, 1, ?)",
			"bob", prompt.ID, time.Now(),
		).Error)

		require.NoError(t, svc.Delete(ctx, actor("alice"), prompt.ID))

		var count int64
		require.NoError(t, db.Model(&promptModel.Prompt{}).Count(&count).Error)
		assert.Zero(t, count)
		require.NoError(t, db.Model(&promptModel.Favorite{}).Count(&count).Error)
		assert.Zero(t, count)
		for _, table := range []string{"collection_items", "team_pins", "user_pins"} {
			require.NoError(t, db.Table(table).Count(&count).Error)
			assert.Zero(t, count, table)
		}
	})

	t.Run("stranger cannot tell a private prompt exists", func(t *testing.T) {
		svc, _ := setupFKTestService(t)

		prompt, err := svc.Create(ctx, actor("alice"), &promptModel.CreatePromptRequest{
			Title: "secret", Body: "hidden",
		})
		require.NoError(t, err)

		err = svc.Delete(ctx, actor("stranger"), prompt.ID)
		assert.ErrorIs(t, err, promptModel.ErrPromptNotFound)

		got, err := svc.Get(ctx, actor("alice"), prompt.ID)
		require.NoError(t, err)
		assert.Equal(t, prompt.ID, got.ID)
	})

	t.Run("missing prompt", func(t *testing.T) {
		svc, _ := setupFKTestService(t)

		err := svc.Delete(ctx, actor("alice"), "nope")
		assert.ErrorIs(t, err, promptModel.ErrPromptNotFound)
	})
}

func TestService_Fork(t *testing.T) {
	ctx := context.Background()

	t.Run("fork is always private with no team", func(t *testing.T) {
		svc, db := newTestService(t)
		addMembership(t, db, "team1", "owner", access.TeamRoleAdmin)
		addMembership(t, db, "team1", "u2", access.TeamRoleMember)

		source, err := svc.Create(ctx, actor("owner"), &promptModel.CreatePromptRequest{
			Title: "shared", Body: "team text", Visibility: access.VisibilityTeam, TeamID: strPtr("team1"),
		})
		require.NoError(t, err)

		fork, err := svc.Fork(ctx, actor("u2"), source.ID)
		require.NoError(t, err)

		assert.Equal(t, "u2", fork.OwnerID)
		assert.Equal(t, access.VisibilityPrivate, fork.Visibility)
		assert.Nil(t, fork.TeamID)
		assert.Equal(t, source.Body, fork.Body)
		assert.Zero(t, fork.FavoriteCount)
		assert.Zero(t, fork.CopyCount)

		got, err := svc.Get(ctx, actor("owner"), source.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.CopyCount)
	})

	t.Run("unreadable prompt cannot be forked", func(t *testing.T) {
		svc, _ := newTestService(t)

		source, err := svc.Create(ctx, actor("owner"), &promptModel.CreatePromptRequest{
			Title: "secret", Body: "hidden",
		})
		require.NoError(t, err)

		_, err = svc.Fork(ctx, actor("stranger"), source.ID)
		assert.ErrorIs(t, err, promptModel.ErrPromptNotFound)
	})
}

func TestService_ToggleFavorite(t *testing.T) {
	ctx := context.Background()

	t.Run("toggle pair is a no-op", func(t *testing.T) {
		svc, _ := newTestService(t)

		prompt, err := svc.Create(ctx, actor("owner"), &promptModel.CreatePromptRequest{
			Title: "open", Body: "text", Visibility: access.VisibilityPublic,
		})
		require.NoError(t, err)

		on, err := svc.ToggleFavorite(ctx, actor("u2"), prompt.ID)
		require.NoError(t, err)
		assert.True(t, on.Favorited)
		assert.Equal(t, 1, on.FavoriteCount)

		off, err := svc.ToggleFavorite(ctx, actor("u2"), prompt.ID)
		require.NoError(t, err)
		assert.False(t, off.Favorited)
		assert.Equal(t, 0, off.FavoriteCount)
	})

	t.Run("counter tracks distinct users", func(t *testing.T) {
		svc, _ := newTestService(t)

		prompt, err := svc.Create(ctx, actor("owner"), &promptModel.CreatePromptRequest{
			Title: "open", Body: "text", Visibility: access.VisibilityPublic,
		})
		require.NoError(t, err)

		_, err = svc.ToggleFavorite(ctx, actor("u1"), prompt.ID)
		require.NoError(t, err)
		resp, err := svc.ToggleFavorite(ctx, actor("u2"), prompt.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, resp.FavoriteCount)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t)
	addMembership(t, db, "team1", "member", access.TeamRoleMember)
	addMembership(t, db, "team1", "owner", access.TeamRoleAdmin)

	_, err := svc.Create(ctx, actor("owner"), &promptModel.CreatePromptRequest{
		Title: "mine", Body: "a",
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, actor("owner"), &promptModel.CreatePromptRequest{
		Title: "shared", Body: "b", Visibility: access.VisibilityTeam, TeamID: strPtr("team1"),
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, actor("owner"), &promptModel.CreatePromptRequest{
		Title: "open", Body: "c", Visibility: access.VisibilityPublic,
	})
	require.NoError(t, err)

	ownerList, err := svc.List(ctx, actor("owner"))
	require.NoError(t, err)
	assert.Len(t, ownerList, 3)

	memberList, err := svc.List(ctx, actor("member"))
	require.NoError(t, err)
	assert.Len(t, memberList, 2)

	strangerList, err := svc.List(ctx, actor("stranger"))
	require.NoError(t, err)
	assert.Len(t, strangerList, 1)
}
