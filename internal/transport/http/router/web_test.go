package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cardlink/internal/core/auth"
	"cardlink/internal/domain"
	"cardlink/internal/repo/memory"
	"cardlink/internal/service"
)

type testEnv struct {
	engine *gin.Engine
	jwter  *auth.JWTer
	svc    *service.CardService
	stats  *memory.StatRepo
	users  *memory.UserRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cards := memory.NewCardRepo()
	users := memory.NewUserRepo()
	stats := memory.NewStatRepo()
	views := memory.NewViewRepo()
	settings := memory.NewSettingsRepo(domain.Settings{FreeCardLimit: 1, ProCardLimit: 10})

	log := zap.NewNop()
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}

	slugs := service.NewSlugAllocator(cards)
	quota := service.NewQuotaGuard(cards, users, settings)
	cardSvc := service.NewCardService(cards, users, stats, views, slugs, quota, log)
	accountSvc := service.NewAccountService(users, settings, log)

	deps := Deps{
		Log:      log,
		JWT:      jwter,
		Cards:    cardSvc,
		Accounts: accountSvc,
		Quota:    quota,
		Slugs:    slugs,
		Users:    users,
		CardRepo: cards,
		Stats:    stats,
		Views:    views,
	}

	ctx := context.Background()
	require.NoError(t, users.Create(ctx, &domain.UserAccount{ID: "u1", Email: "u1@x.io", Plan: domain.PlanFree, CardLimit: 1}))

	return &testEnv{engine: NewAPIEngine(deps), jwter: jwter, svc: cardSvc, stats: stats, users: users}
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func TestVCFDownload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	card, err := env.svc.Create(ctx, &domain.Principal{ID: "u1"}, service.CreateCardInput{
		Name: "Jane Doe", Email: "jane@x.io", Published: true,
	})
	require.NoError(t, err)

	w := env.do(http.MethodGet, "/vcf/"+card.Slug, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `attachment; filename="jane-doe.vcf"`, w.Header().Get("Content-Disposition"))
	require.Contains(t, w.Header().Get("Content-Type"), "text/vcard")
	require.Contains(t, w.Body.String(), "BEGIN:VCARD")
	require.Contains(t, w.Body.String(), "FN:Jane Doe")

	st, err := env.stats.FindByCardID(ctx, card.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, st.Downloads)
}

func TestVCFNotFoundForMissingOrDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	w := env.do(http.MethodGet, "/vcf/no-such-slug", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	draft, err := env.svc.Create(ctx, &domain.Principal{ID: "u1"}, service.CreateCardInput{
		Name: "Draft Card", Published: false,
	})
	require.NoError(t, err)

	w = env.do(http.MethodGet, "/vcf/"+draft.Slug, "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestReserveSlug(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/reserve-slug", "", map[string]string{"fullName": "Jane Doe", "uid": "u1"})
	require.Equal(t, http.StatusOK, w.Code)
	var out map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, "jane-doe", out["slug"])

	w = env.do(http.MethodPost, "/reserve-slug", "", map[string]string{"fullName": "Jane Doe"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckQuotaOverLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, &domain.Principal{ID: "u1"}, service.CreateCardInput{
		Name: "Jane Doe", Published: true,
	})
	require.NoError(t, err)

	w := env.do(http.MethodPost, "/check-quota", "", map[string]string{"uid": "u1"})
	require.Equal(t, http.StatusForbidden, w.Code)

	var out struct {
		Error   string `json:"error"`
		Current int    `json:"current"`
		Limit   int    `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, "QUOTA_EXCEEDED", out.Error)
	require.Equal(t, 1, out.Current)
	require.Equal(t, 1, out.Limit)
}

func TestCheckQuotaUnderLimit(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/check-quota", "", map[string]string{"uid": "u1"})
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Allowed bool `json:"allowed"`
		Limit   int  `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.True(t, out.Allowed)
	require.Equal(t, 1, out.Limit)
}

func TestRPCGetCardBySlugDeniedForAnonymousDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	draft, err := env.svc.Create(ctx, &domain.Principal{ID: "u1"}, service.CreateCardInput{
		Name: "Draft Card", Published: false,
	})
	require.NoError(t, err)

	w := env.do(http.MethodPost, "/rpc/v1/getCardBySlug", "", map[string]string{"slug": draft.Slug})
	require.Equal(t, http.StatusOK, w.Code) // callable surface: failure lives in the envelope

	var out struct {
		Code int    `json:"code"`
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, 403, out.Code)
	require.Equal(t, "PERMISSION_DENIED", out.Kind)
}

func TestRPCCreateAndDeleteCard(t *testing.T) {
	env := newTestEnv(t)

	tok, err := env.jwter.Issue("u1", domain.RoleUser)
	require.NoError(t, err)

	w := env.do(http.MethodPost, "/rpc/v1/createCard", tok, map[string]any{
		"cardData": map[string]any{"name": "Jane Doe", "published": true},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Code int         `json:"code"`
		Data domain.Card `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, 0, created.Code)
	require.Equal(t, "jane-doe", created.Data.Slug)
	require.Equal(t, "u1", created.Data.OwnerID)

	w = env.do(http.MethodPost, "/rpc/v1/deleteCard", tok, map[string]string{"cardId": created.Data.ID})
	var deleted struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deleted))
	require.Equal(t, 0, deleted.Code)

	u1, err := env.users.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, 0, u1.CardsCreated)
}

func TestRPCWriteRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/rpc/v1/deleteCard", "", map[string]string{"cardId": "whatever"})
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Code int    `json:"code"`
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, 401, out.Code)
	require.Equal(t, "UNAUTHENTICATED", out.Kind)
}

func TestRPCUpgradePlan(t *testing.T) {
	env := newTestEnv(t)

	tok, err := env.jwter.Issue("u1", domain.RoleUser)
	require.NoError(t, err)

	w := env.do(http.MethodPost, "/rpc/v1/upgradePlan", tok, map[string]string{"paymentToken": "tok_42"})
	var out struct {
		Code int `json:"code"`
		Data struct {
			Plan      string `json:"plan"`
			CardLimit int    `json:"cardLimit"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, 0, out.Code)
	require.Equal(t, "pro", out.Data.Plan)
	require.Equal(t, 10, out.Data.CardLimit)

	w = env.do(http.MethodPost, "/rpc/v1/upgradePlan", tok, map[string]string{"paymentToken": ""})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, 400, out.Code)
}
