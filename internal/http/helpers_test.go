package http_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tazhibayda/tasks-service/internal/domain"
	api "github.com/tazhibayda/tasks-service/internal/http"
	"github.com/tazhibayda/tasks-service/internal/identity"
	"github.com/tazhibayda/tasks-service/internal/queue"
)

// Collaborators are faked per the capability interfaces; env.calls records
// the order of external writes so ordering properties can be asserted.

type testEnv struct {
	T      *testing.T
	Store  *fakeStore
	IDP    *fakeVerifier
	Bill   *fakeBilling
	Router *gin.Engine
	calls  *[]string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	calls := &[]string{}
	fs := newFakeStore(calls)
	fv := newFakeVerifier()
	fb := &fakeBilling{calls: calls}

	h := &api.Handler{
		Tasks:     fs,
		UserTasks: fs,
		Profiles:  fs,
		DB:        fs,
		Identity:  fv,
		Billing:   fb,
		Events:    queue.NewNoop(),

		SessionTTL:     14 * 24 * time.Hour,
		AppBaseURL:     "http://app.local",
		PublishableKey: "pk_test_abc",
		PricingTableID: "prctbl_abc",
	}
	return &testEnv{T: t, Store: fs, IDP: fv, Bill: fb, Router: api.NewRouter(h), calls: calls}
}

func (e *testEnv) externalWrites() []string { return *e.calls }

// ---- identity fake ----

type fakeVerifier struct {
	idTokens map[string]*identity.Claims // valid ID tokens
	sessions map[string]*identity.Claims // valid session cookies
	mintErr  error
}

func newFakeVerifier() *fakeVerifier {
	return &fakeVerifier{
		idTokens: map[string]*identity.Claims{},
		sessions: map[string]*identity.Claims{},
	}
}

func (f *fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*identity.Claims, error) {
	if c, ok := f.idTokens[idToken]; ok {
		return c, nil
	}
	return nil, errors.New("invalid id token")
}

func (f *fakeVerifier) MintSessionCookie(_ context.Context, idToken string, _ time.Duration) (string, error) {
	if f.mintErr != nil {
		return "", f.mintErr
	}
	return "sess-" + idToken, nil
}

func (f *fakeVerifier) VerifySessionCookie(_ context.Context, cookie string) (*identity.Claims, error) {
	if c, ok := f.sessions[cookie]; ok {
		return c, nil
	}
	return nil, errors.New("invalid session cookie")
}

// grantSession registers a valid session cookie for uid and returns it.
func (f *fakeVerifier) grantSession(uid, email string) string {
	cookie := "sess-" + uid
	f.sessions[cookie] = &identity.Claims{UID: uid, Email: email}
	return cookie
}

// ---- store fake ----

type fakeStore struct {
	tasks     []map[string]any
	userTasks map[string]map[string]any
	profiles  map[string]*domain.Profile
	upserts   int
	calls     *[]string

	// injected failures
	tasksErr        error // catalog reads
	userTasksErr    error // user-task reads
	deleteErr       error
	profileGetFails int // GetProfile errors while > 0
}

func newFakeStore(calls *[]string) *fakeStore {
	return &fakeStore{
		userTasks: map[string]map[string]any{},
		profiles:  map[string]*domain.Profile{},
		calls:     calls,
	}
}

func utKey(uid, taskID string) string { return uid + "|" + taskID }

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) ListTasks(_ context.Context, module, section string) ([]map[string]any, error) {
	if f.tasksErr != nil {
		return nil, f.tasksErr
	}
	out := []map[string]any{}
	for _, doc := range f.tasks {
		if doc["module"] != module {
			continue
		}
		if s := strings.TrimSpace(section); s != "" && doc["section"] != s {
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}

func (f *fakeStore) FindTaskByTaskID(_ context.Context, taskID string) (map[string]any, error) {
	if f.tasksErr != nil {
		return nil, f.tasksErr
	}
	for _, doc := range f.tasks {
		if doc["task_id"] == taskID {
			return doc, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetUserTask(_ context.Context, uid, taskID string) (map[string]any, error) {
	if f.userTasksErr != nil {
		return nil, f.userTasksErr
	}
	doc, ok := f.userTasks[utKey(uid, taskID)]
	if !ok {
		return nil, nil
	}
	return doc, nil
}

func (f *fakeStore) DeleteUserTask(_ context.Context, uid, taskID string) (bool, error) {
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	k := utKey(uid, taskID)
	if _, ok := f.userTasks[k]; !ok {
		return false, nil
	}
	*f.calls = append(*f.calls, "usertask.delete")
	delete(f.userTasks, k)
	return true, nil
}

func (f *fakeStore) GetProfile(_ context.Context, uid string) (*domain.Profile, error) {
	if f.profileGetFails > 0 {
		f.profileGetFails--
		return nil, errors.New("store unavailable")
	}
	p, ok := f.profiles[uid]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) UpsertProfile(_ context.Context, p domain.Profile) error {
	*f.calls = append(*f.calls, "profile.upsert")
	f.upserts++
	cur, ok := f.profiles[p.UID]
	if !ok {
		cp := p
		f.profiles[p.UID] = &cp
		return nil
	}
	if p.Email != "" {
		cur.Email = p.Email
	}
	if p.PhotoURL != "" {
		cur.PhotoURL = p.PhotoURL
	}
	if p.StripeCustomerID != "" {
		cur.StripeCustomerID = p.StripeCustomerID
	}
	return nil
}

// write-if-absent, like the real store: an existing linkage is an error,
// never an overwrite.
func (f *fakeStore) SetStripeCustomerID(_ context.Context, uid, customerID string) error {
	cur, ok := f.profiles[uid]
	if ok && cur.StripeCustomerID != "" {
		return errors.New("customer id already set")
	}
	*f.calls = append(*f.calls, "profile.set_customer")
	if !ok {
		f.profiles[uid] = &domain.Profile{UID: uid, StripeCustomerID: customerID}
		return nil
	}
	cur.StripeCustomerID = customerID
	return nil
}

// ---- billing fake ----

type fakeBilling struct {
	customers   int
	checkouts   int
	portals     int
	failCreate  bool
	failSession bool
	calls       *[]string
}

func (f *fakeBilling) CreateCustomer(_ context.Context, email, uid string) (string, error) {
	if f.failCreate {
		return "", errors.New("processor unavailable")
	}
	*f.calls = append(*f.calls, "customer.create")
	f.customers++
	return "cus_" + uid, nil
}

func (f *fakeBilling) CreateCheckoutSession(_ context.Context, customerID, priceID, successURL, cancelURL string) (string, error) {
	if f.failSession {
		return "", errors.New("processor unavailable")
	}
	*f.calls = append(*f.calls, "checkout.create")
	f.checkouts++
	return "https://checkout.example.com/" + customerID + "/" + priceID, nil
}

func (f *fakeBilling) CreatePortalSession(_ context.Context, customerID, returnURL string) (string, error) {
	if f.failSession {
		return "", errors.New("processor unavailable")
	}
	*f.calls = append(*f.calls, "portal.create")
	f.portals++
	return "https://portal.example.com/" + customerID, nil
}
