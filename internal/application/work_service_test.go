package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/streamerd/cocoso/internal/application"
	"github.com/streamerd/cocoso/internal/testfixtures"
)

type workRepoStub struct {
	created  application.Work
	stored   application.Work
	updated  *application.Work
	deleted  string
	byAuthor []application.Work
}

func (r *workRepoStub) CreateWork(ctx context.Context, work application.Work) (application.Work, error) {
	r.created = work
	return work, nil
}

func (r *workRepoStub) GetWork(ctx context.Context, id string) (application.Work, error) {
	if r.stored.ID == "" || r.stored.ID != id {
		return application.Work{}, application.ErrNotFound
	}
	return r.stored, nil
}

func (r *workRepoStub) UpdateWork(ctx context.Context, work application.Work) (application.Work, error) {
	r.updated = &work
	return work, nil
}

func (r *workRepoStub) DeleteWork(ctx context.Context, id string) error {
	r.deleted = id
	return nil
}

func (r *workRepoStub) ListWorksByAuthor(ctx context.Context, authorID string) ([]application.Work, error) {
	return r.byAuthor, nil
}

func TestWorkService_CreateWork(t *testing.T) {
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	ids := testfixtures.NewIDGenerator("work")

	t.Run("requires an authenticated caller", func(t *testing.T) {
		svc := application.NewWorkService(&workRepoStub{}, ids.NextFunc(), clock.NowFunc())

		_, err := svc.CreateWork(context.Background(), application.CreateWorkParams{
			Input: testfixtures.NewWorkFixture().Input(),
		})

		if !errors.Is(err, application.ErrUnauthorized) {
			t.Fatalf("err = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("requires a title", func(t *testing.T) {
		svc := application.NewWorkService(&workRepoStub{}, ids.NextFunc(), clock.NowFunc())
		author := testfixtures.NewUserFixture(testfixtures.WithMembership("example.org", application.RoleContributor))

		_, err := svc.CreateWork(context.Background(), application.CreateWorkParams{
			Principal: author.Principal(),
			Input:     application.WorkInput{Title: "   "},
		})

		var vErr *application.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("err = %v, want *ValidationError", err)
		}
	})

	t.Run("stamps authorship and copies the image list", func(t *testing.T) {
		repo := &workRepoStub{}
		svc := application.NewWorkService(repo, ids.NextFunc(), clock.NowFunc())
		author := testfixtures.NewUserFixture(testfixtures.WithMembership("example.org", application.RoleContributor))

		images := []string{"https://images.example.com/a.jpg"}
		created, err := svc.CreateWork(context.Background(), application.CreateWorkParams{
			Principal: author.Principal(),
			Input: application.WorkInput{
				Title:    "Vases",
				Category: application.WorkCategory{Label: "ceramics", Color: "hsl(40, 62%, 62%)"},
				Images:   images,
			},
		})
		if err != nil {
			t.Fatalf("CreateWork: %v", err)
		}

		if created.AuthorID != author.ID || created.AuthorUsername != author.Username {
			t.Errorf("authorship = %q/%q", created.AuthorID, created.AuthorUsername)
		}

		images[0] = "mutated"
		if created.Images[0] == "mutated" {
			t.Errorf("image list aliases the caller's slice")
		}
	})
}

func TestWorkService_UpdateWork(t *testing.T) {
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	ids := testfixtures.NewIDGenerator("work")

	t.Run("only the author may update", func(t *testing.T) {
		stored := testfixtures.NewWorkFixture().Application()
		repo := &workRepoStub{stored: stored}
		svc := application.NewWorkService(repo, ids.NextFunc(), clock.NowFunc())

		intruder := testfixtures.NewUserFixture(testfixtures.WithMembership("example.org", application.RoleContributor))
		_, err := svc.UpdateWork(context.Background(), application.UpdateWorkParams{
			Principal: intruder.Principal(),
			WorkID:    stored.ID,
			Input:     testfixtures.NewWorkFixture().Input(),
		})

		if !errors.Is(err, application.ErrUnauthorized) {
			t.Fatalf("err = %v, want ErrUnauthorized", err)
		}
		if repo.updated != nil {
			t.Errorf("work was updated by a non-author")
		}
	})

	t.Run("overwrites the category from host configuration", func(t *testing.T) {
		author := testfixtures.NewUserFixture(testfixtures.WithMembership("example.org", application.RoleContributor))
		stored := testfixtures.NewWorkFixture(testfixtures.WithWorkAuthor(author.ID, author.Username)).Application()
		repo := &workRepoStub{stored: stored}
		svc := application.NewWorkService(repo, ids.NextFunc(), clock.NowFunc())

		updated, err := svc.UpdateWork(context.Background(), application.UpdateWorkParams{
			Principal: author.Principal(),
			WorkID:    stored.ID,
			Input: application.WorkInput{
				Title:    stored.Title,
				Category: application.WorkCategory{Label: "painting", Color: "hsl(120, 62%, 62%)"},
			},
		})
		if err != nil {
			t.Fatalf("UpdateWork: %v", err)
		}
		if updated.Category.Label != "painting" {
			t.Errorf("category = %+v", updated.Category)
		}
	})
}

func TestWorkService_DeleteWork(t *testing.T) {
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	ids := testfixtures.NewIDGenerator("work")

	t.Run("only the author may delete", func(t *testing.T) {
		stored := testfixtures.NewWorkFixture().Application()
		repo := &workRepoStub{stored: stored}
		svc := application.NewWorkService(repo, ids.NextFunc(), clock.NowFunc())

		intruder := testfixtures.NewUserFixture(testfixtures.WithMembership("example.org", application.RoleContributor))
		err := svc.DeleteWork(context.Background(), intruder.Principal(), stored.ID)

		if !errors.Is(err, application.ErrUnauthorized) {
			t.Fatalf("err = %v, want ErrUnauthorized", err)
		}
		if repo.deleted != "" {
			t.Errorf("work was deleted by a non-author")
		}
	})

	t.Run("removes the author's own work", func(t *testing.T) {
		author := testfixtures.NewUserFixture(testfixtures.WithMembership("example.org", application.RoleContributor))
		stored := testfixtures.NewWorkFixture(testfixtures.WithWorkAuthor(author.ID, author.Username)).Application()
		repo := &workRepoStub{stored: stored}
		svc := application.NewWorkService(repo, ids.NextFunc(), clock.NowFunc())

		if err := svc.DeleteWork(context.Background(), author.Principal(), stored.ID); err != nil {
			t.Fatalf("DeleteWork: %v", err)
		}
		if repo.deleted != stored.ID {
			t.Errorf("deleted = %q, want %q", repo.deleted, stored.ID)
		}
	})

	t.Run("missing work yields ErrNotFound", func(t *testing.T) {
		svc := application.NewWorkService(&workRepoStub{}, ids.NextFunc(), clock.NowFunc())
		author := testfixtures.NewUserFixture(testfixtures.WithMembership("example.org", application.RoleContributor))

		err := svc.DeleteWork(context.Background(), author.Principal(), "missing")
		if !errors.Is(err, application.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})
}
