package slack_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/slack-go/slack"

	"github.com/andreycorp/grocfriend/pkg/domain/interfaces"
	"github.com/andreycorp/grocfriend/pkg/repository/memory"
	slacksvc "github.com/andreycorp/grocfriend/pkg/service/slack"
	"github.com/andreycorp/grocfriend/pkg/utils/ctxutil"
)

func TestTenantResolution(t *testing.T) {
	t.Run("context without tenant fails", func(t *testing.T) {
		repo := memory.New()
		svc := slacksvc.New(repo.Workspace())

		_, err := svc.SendMessage(context.Background(), "C001", "hello")
		gt.Error(t, err)
	})

	t.Run("unknown tenant surfaces workspace not found", func(t *testing.T) {
		repo := memory.New()
		svc := slacksvc.New(repo.Workspace())

		ctx := ctxutil.WithTeamID(context.Background(), "T-unknown")
		_, err := svc.SendMessage(ctx, "C001", "hello")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, interfaces.ErrWorkspaceNotFound)).True()
	})

	t.Run("explicit team form ignores context tenant", func(t *testing.T) {
		repo := memory.New()
		svc := slacksvc.New(repo.Workspace())

		// Context carries a tenant, but the ForTeam call resolves the
		// explicit one, which is unknown.
		ctx := ctxutil.WithTeamID(context.Background(), "T-ctx")
		_, err := svc.SendMessageForTeam(ctx, "T-explicit", "C001", "hello")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, interfaces.ErrWorkspaceNotFound)).True()
	})
}

func TestPublishHomeView(t *testing.T) {
	repo := memory.New()
	svc := slacksvc.New(repo.Workspace())

	view := slack.HomeTabViewRequest{Type: slack.VTHomeTab}
	err := svc.PublishHomeViewForTeam(context.Background(), "T-unknown", "U001", view)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, interfaces.ErrWorkspaceNotFound)).True()
}
