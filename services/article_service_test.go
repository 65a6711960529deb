package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tau-journal/clients"
	"tau-journal/identity"
	"tau-journal/models"
)

// capturingServer records every request body it receives and answers 200.
type capturingServer struct {
	srv *httptest.Server

	mu       sync.Mutex
	requests []capturedRequest
}

type capturedRequest struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

func newCapturingServer(t *testing.T) *capturingServer {
	t.Helper()
	cs := &capturingServer{}
	cs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		cs.mu.Lock()
		cs.requests = append(cs.requests, capturedRequest{Method: r.Method, Path: r.URL.Path, Body: body})
		cs.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(cs.srv.Close)
	return cs
}

func (cs *capturingServer) captured() []capturedRequest {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]capturedRequest(nil), cs.requests...)
}

type articleFixture struct {
	service    ArticleService
	articles   *memArticleRepo
	authors    *memAuthorRepo
	keywords   *memKeywordRepo
	reviewSrv  *capturingServer
	profileSrv *capturingServer
	fileSrv    *capturingServer
	notifySrv  *capturingServer
	author     *identity.Identity
	editor     *identity.Identity
}

func newArticleFixture(t *testing.T) *articleFixture {
	return newArticleFixtureWith(t, nil, nil)
}

// newArticleFixtureWith lets a test stand in its own profile or file
// service. Nil handlers fall back to the capturing stubs.
func newArticleFixtureWith(t *testing.T, profiles, files http.Handler) *articleFixture {
	t.Helper()
	logger := zap.NewNop()
	f := &articleFixture{
		articles:   newMemArticleRepo(),
		authors:    newMemAuthorRepo(),
		keywords:   newMemKeywordRepo(),
		reviewSrv:  newCapturingServer(t),
		profileSrv: newCapturingServer(t),
		fileSrv:    newCapturingServer(t),
		notifySrv:  newCapturingServer(t),
		author:     &identity.Identity{UserID: 10, Roles: []string{identity.RoleAuthor}},
		editor:     &identity.Identity{UserID: 20, Roles: []string{identity.RoleEditor}},
	}
	profileURL := f.profileSrv.srv.URL
	if profiles != nil {
		srv := httptest.NewServer(profiles)
		t.Cleanup(srv.Close)
		profileURL = srv.URL
	}
	fileURL := f.fileSrv.srv.URL
	if files != nil {
		srv := httptest.NewServer(files)
		t.Cleanup(srv.Close)
		fileURL = srv.URL
	}
	reviewClient := clients.NewReviewClient(f.reviewSrv.srv.URL, time.Second, logger)
	profileClient := clients.NewProfileClient(profileURL, profileURL, time.Second, logger)
	fileClient := clients.NewFileClient(fileURL, time.Second, logger)
	notificationClient := clients.NewNotificationClient(f.notifySrv.srv.URL, time.Second, logger)
	f.service = NewArticleService(f.articles, f.authors, f.keywords, reviewClient, profileClient, fileClient, notificationClient, logger)
	return f
}

func strPtr(s string) *string { return &s }

// reviewerIDs flattens the reviewer listing down to ids. The fixture's
// stub servers answer empty bodies, so the merged fields stay null.
func reviewerIDs(t *testing.T, f *articleFixture, articleID uint) []uint {
	t.Helper()
	infos, err := f.service.Reviewers(context.Background(), f.editor, articleID)
	require.NoError(t, err)
	ids := make([]uint, 0, len(infos))
	for _, info := range infos {
		ids = append(ids, info.ReviewerID)
	}
	return ids
}

func createRequest() models.ArticleCreateRequest {
	return models.ArticleCreateRequest{
		TitleKZ:          "KZ",
		TitleEN:          "EN",
		TitleRU:          "RU",
		ManuscriptFileID: strPtr("blob-1"),
	}
}

func TestCreateArticleStartsSubmittedWithFirstVersion(t *testing.T) {
	f := newArticleFixture(t)

	article, err := f.service.Create(context.Background(), f.author, createRequest())
	require.NoError(t, err)

	assert.Equal(t, models.StatusSubmitted, article.Status)
	assert.Equal(t, uint(10), article.ResponsibleUserID)
	require.NotNil(t, article.ManuscriptFileURL)
	assert.Equal(t, "/files/blob-1/download", *article.ManuscriptFileURL)

	require.Len(t, article.Versions, 1)
	assert.Equal(t, 1, article.Versions[0].VersionNumber)
	assert.Equal(t, "TAU-V1", article.Versions[0].VersionCode)
	require.NotNil(t, article.CurrentVersionID)
	assert.Equal(t, article.Versions[0].ID, *article.CurrentVersionID)
}

func TestCreateArticleRequiresAuthorRole(t *testing.T) {
	f := newArticleFixture(t)

	reviewer := &identity.Identity{UserID: 99, Roles: []string{identity.RoleReviewer}}
	_, err := f.service.Create(context.Background(), reviewer, createRequest())

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.Code)
	assert.Empty(t, f.articles.articles)
}

func TestCreateArticleRejectsUnknownAuthors(t *testing.T) {
	f := newArticleFixture(t)

	req := createRequest()
	req.AuthorIDs = []uint{99}
	_, err := f.service.Create(context.Background(), f.author, req)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)
}

func TestUpdateAppendsVersionAndResetsStatus(t *testing.T) {
	f := newArticleFixture(t)

	article, err := f.service.Create(context.Background(), f.author, createRequest())
	require.NoError(t, err)

	_, err = f.service.ChangeStatus(context.Background(), f.editor, article.ID, models.StatusAccepted)
	require.NoError(t, err)

	updated, err := f.service.Update(context.Background(), f.author, article.ID, models.ArticleUpdateRequest{
		TitleEN: strPtr("EN v2"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusSubmitted, updated.Status)
	require.Len(t, updated.Versions, 2)
	assert.Equal(t, "TAU-V2", updated.Versions[1].VersionCode)
	assert.Equal(t, updated.Versions[1].ID, *updated.CurrentVersionID)

	// The first snapshot stays frozen at the original content.
	assert.Equal(t, "EN", updated.Versions[0].TitleEN)
	assert.Equal(t, "EN v2", updated.Versions[1].TitleEN)
}

func TestUpdatePublishedArticleKeepsStatus(t *testing.T) {
	f := newArticleFixture(t)

	article, err := f.service.Create(context.Background(), f.author, createRequest())
	require.NoError(t, err)
	_, err = f.service.ChangeStatus(context.Background(), f.editor, article.ID, models.StatusPublished)
	require.NoError(t, err)

	updated, err := f.service.Update(context.Background(), f.author, article.ID, models.ArticleUpdateRequest{
		TitleEN: strPtr("post-publication fix"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, updated.Status)
}

func TestUpdateByStrangerForbidden(t *testing.T) {
	f := newArticleFixture(t)

	article, err := f.service.Create(context.Background(), f.author, createRequest())
	require.NoError(t, err)

	stranger := &identity.Identity{UserID: 77, Roles: []string{identity.RoleAuthor}}
	_, err = f.service.Update(context.Background(), stranger, article.ID, models.ArticleUpdateRequest{})

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.Code)
}

func TestEditorCannotUpdateOrWithdrawOthersArticle(t *testing.T) {
	f := newArticleFixture(t)

	article, err := f.service.Create(context.Background(), f.author, createRequest())
	require.NoError(t, err)

	// Holding the editor role grants no write access to a manuscript
	// someone else is responsible for.
	var se *StatusError
	_, err = f.service.Update(context.Background(), f.editor, article.ID, models.ArticleUpdateRequest{
		TitleEN: strPtr("edited"),
	})
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.Code)

	_, err = f.service.Withdraw(context.Background(), f.editor, article.ID)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.Code)

	kept, err := f.service.GetDetail(article.ID)
	require.NoError(t, err)
	assert.Equal(t, "EN", kept.TitleEN)
	assert.Equal(t, models.StatusSubmitted, kept.Status)
}

func TestCreateVersionSnapshotsWithoutChanges(t *testing.T) {
	f := newArticleFixture(t)

	article, err := f.service.Create(context.Background(), f.author, createRequest())
	require.NoError(t, err)

	version, err := f.service.CreateVersion(f.author, article.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, version.VersionNumber)
	assert.Equal(t, "TAU-V2", version.VersionCode)
	assert.Equal(t, "EN", version.TitleEN)

	detail, err := f.service.GetDetail(article.ID)
	require.NoError(t, err)
	require.Len(t, detail.Versions, 2)
	assert.Equal(t, version.ID, *detail.CurrentVersionID)
}

func TestCreateVersionOwnerOnly(t *testing.T) {
	f := newArticleFixture(t)

	article, err := f.service.Create(context.Background(), f.author, createRequest())
	require.NoError(t, err)

	_, err = f.service.CreateVersion(f.editor, article.ID)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.Code)
}

func TestGetOwnedChecksResponsibleUser(t *testing.T) {
	f := newArticleFixture(t)

	article, err := f.service.Create(context.Background(), f.author, createRequest())
	require.NoError(t, err)

	owned, err := f.service.GetOwned(f.author, article.ID)
	require.NoError(t, err)
	assert.Equal(t, article.ID, owned.ID)

	_, err = f.service.GetOwned(f.editor, article.ID)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.Code)

	_, err = f.service.GetOwned(f.author, 9999)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
}

func TestReviewersListingAccessControl(t *testing.T) {
	f := newArticleFixture(t)

	article, err := f.service.Create(context.Background(), f.author, createRequest())
	require.NoError(t, err)
	_, err = f.service.AssignReviewers(context.Background(), f.editor, article.ID, models.AssignReviewersRequest{ReviewerIDs: []uint{31}})
	require.NoError(t, err)

	// The responsible user and editors can read the listing.
	infos, err := f.service.Reviewers(context.Background(), f.author, article.ID)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, uint(31), infos[0].ReviewerID)

	stranger := &identity.Identity{UserID: 77, Roles: []string{identity.RoleAuthor}}
	_, err = f.service.Reviewers(context.Background(), stranger, article.ID)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.Code)
}

func TestReviewersListingEnrichesProfiles(t *testing.T) {
	profiles := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/31":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": 31, "full_name": "Dana Serikova"})
		case "/auth/users/31":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"email": "dana@example.kz"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	f := newArticleFixtureWith(t, profiles, nil)

	article, err := f.service.Create(context.Background(), f.author, createRequest())
	require.NoError(t, err)
	_, err = f.service.AssignReviewers(context.Background(), f.editor, article.ID, models.AssignReviewersRequest{ReviewerIDs: []uint{31, 32}})
	require.NoError(t, err)

	infos, err := f.service.Reviewers(context.Background(), f.editor, article.ID)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	byID := map[uint]models.ArticleReviewerInfo{}
	for _, info := range infos {
		byID[info.ReviewerID] = info
	}

	known := byID[31]
	require.NotNil(t, known.Reviewer)
	require.NotNil(t, known.Reviewer.FullName)
	assert.Equal(t, "Dana Serikova", *known.Reviewer.FullName)
	require.NotNil(t, known.Reviewer.Email)
	assert.Equal(t, "dana@example.kz", *known.Reviewer.Email)

	// A reviewer the profile services never heard of still gets an
	// entry, just without the merged fields.
	unknown := byID[32]
	require.NotNil(t, unknown.Reviewer)
	assert.Equal(t, uint(32), unknown.Reviewer.UserID)
	assert.Nil(t, unknown.Reviewer.FullName)
}

func TestManuscriptMetadataOwnerAndFileGuards(t *testing.T) {
	files := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/blob-1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "blob-1", "filename": "paper.pdf", "size": 2048})
	})
	f := newArticleFixtureWith(t, nil, files)

	article, err := f.service.Create(context.Background(), f.author, createRequest())
	require.NoError(t, err)

	meta, err := f.service.ManuscriptMetadata(context.Background(), f.author, article.ID)
	require.NoError(t, err)
	assert.Equal(t, "paper.pdf", meta["filename"])

	var se *StatusError
	_, err = f.service.ManuscriptMetadata(context.Background(), f.editor, article.ID)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.Code)

	req := createRequest()
	req.ManuscriptFileID = nil
	bare, err := f.service.Create(context.Background(), f.author, req)
	require.NoError(t, err)
	_, err = f.service.ManuscriptMetadata(context.Background(), f.author, bare.ID)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
}

func TestManuscriptFileServiceErrorTaxonomy(t *testing.T) {
	files := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/files/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/files/slow":
			time.Sleep(1500 * time.Millisecond)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	f := newArticleFixtureWith(t, nil, files)

	createWithFile := func(fileID string) *models.Article {
		req := createRequest()
		req.ManuscriptFileID = strPtr(fileID)
		article, err := f.service.Create(context.Background(), f.author, req)
		require.NoError(t, err)
		return article
	}

	var se *StatusError
	_, err := f.service.ManuscriptMetadata(context.Background(), f.author, createWithFile("missing").ID)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)

	_, err = f.service.ManuscriptMetadata(context.Background(), f.author, createWithFile("broken").ID)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.Code)

	// The fixture client gives downstream calls one second.
	_, err = f.service.ManuscriptMetadata(context.Background(), f.author, createWithFile("slow").ID)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusGatewayTimeout, se.Code)
}

func TestManuscriptDownloadStreamsBody(t *testing.T) {
	files := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/blob-1/download" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7 payload"))
	})
	f := newArticleFixtureWith(t, nil, files)

	article, err := f.service.Create(context.Background(), f.author, createRequest())
	require.NoError(t, err)

	resp, err := f.service.ManuscriptDownload(context.Background(), f.author, article.ID)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 payload", string(body))
}

func TestWithdrawGuards(t *testing.T) {
	f := newArticleFixture(t)

	article, err := f.service.Create(context.Background(), f.author, createRequest())
	require.NoError(t, err)

	withdrawn, err := f.service.Withdraw(context.Background(), f.author, article.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWithdrawn, withdrawn.Status)

	_, err = f.service.Withdraw(context.Background(), f.author, article.ID)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)

	published, err := f.service.Create(context.Background(), f.author, createRequest())
	require.NoError(t, err)
	_, err = f.service.ChangeStatus(context.Background(), f.editor, published.ID, models.StatusPublished)
	require.NoError(t, err)
	_, err = f.service.Withdraw(context.Background(), f.author, published.ID)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)
}

func TestChangeStatusValidatesAndNotifies(t *testing.T) {
	f := newArticleFixture(t)

	article, err := f.service.Create(context.Background(), f.author, createRequest())
	require.NoError(t, err)

	_, err = f.service.ChangeStatus(context.Background(), f.editor, article.ID, "bogus")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)

	updated, err := f.service.ChangeStatus(context.Background(), f.editor, article.ID, models.StatusUnderReview)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderReview, updated.Status)

	notifications := f.notifySrv.captured()
	require.Len(t, notifications, 1)
	assert.Equal(t, "/notifications", notifications[0].Path)
	assert.Equal(t, float64(10), notifications[0].Body["user_id"])
}

func TestAssignReviewersIsIdempotentAndBestEffort(t *testing.T) {
	f := newArticleFixture(t)

	article, err := f.service.Create(context.Background(), f.author, createRequest())
	require.NoError(t, err)

	req := models.AssignReviewersRequest{ReviewerIDs: []uint{31, 32}}
	updated, err := f.service.AssignReviewers(context.Background(), f.editor, article.ID, req)
	require.NoError(t, err)

	// Assignment links reviewers but never moves the workflow; only an
	// explicit status change does that.
	assert.Equal(t, models.StatusSubmitted, updated.Status)

	assert.ElementsMatch(t, []uint{31, 32}, reviewerIDs(t, f, article.ID))

	// Re-assigning reviewer 31 adds no second link.
	_, err = f.service.AssignReviewers(context.Background(), f.editor, article.ID, models.AssignReviewersRequest{ReviewerIDs: []uint{31}})
	require.NoError(t, err)
	assert.Len(t, reviewerIDs(t, f, article.ID), 2)

	// Every assignment call reached the review service.
	var assignCalls int
	for _, r := range f.reviewSrv.captured() {
		if r.Path == "/reviews/assign" {
			assignCalls++
		}
	}
	assert.Equal(t, 3, assignCalls)
}

func TestAssignReviewersSurvivesReviewServiceOutage(t *testing.T) {
	f := newArticleFixture(t)
	f.reviewSrv.srv.Close()

	article, err := f.service.Create(context.Background(), f.author, createRequest())
	require.NoError(t, err)

	updated, err := f.service.AssignReviewers(context.Background(), f.editor, article.ID, models.AssignReviewersRequest{ReviewerIDs: []uint{31}})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, updated.Status)

	assert.Equal(t, []uint{31}, reviewerIDs(t, f, article.ID))
}

func TestListUnassignedValidatesPaging(t *testing.T) {
	f := newArticleFixture(t)

	_, err := f.service.ListUnassigned(models.UnassignedListParams{Page: 0, PageSize: 10})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)

	_, err = f.service.ListUnassigned(models.UnassignedListParams{Page: 1, PageSize: 500})
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)

	_, err = f.service.ListUnassigned(models.UnassignedListParams{Page: 1, PageSize: 10, ArticleType: "essay"})
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)
}

func TestListUnassignedPaginationEnvelope(t *testing.T) {
	f := newArticleFixture(t)

	for i := 0; i < 3; i++ {
		_, err := f.service.Create(context.Background(), f.author, createRequest())
		require.NoError(t, err)
	}

	page, err := f.service.ListUnassigned(models.UnassignedListParams{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(3), page.Pagination.TotalCount)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.False(t, page.Pagination.HasNext)
	assert.True(t, page.Pagination.HasPrev)
}

func TestReviewSubmittedNotifiesEditorAndAuthor(t *testing.T) {
	f := newArticleFixture(t)

	article, err := f.service.Create(context.Background(), f.author, createRequest())
	require.NoError(t, err)
	_, err = f.service.AssignEditor(context.Background(), f.editor, article.ID, 20)
	require.NoError(t, err)

	before := len(f.notifySrv.captured())
	err = f.service.ReviewSubmitted(context.Background(), f.editor, article.ID, 31, "accept")
	require.NoError(t, err)

	notifications := f.notifySrv.captured()[before:]
	require.Len(t, notifications, 2)
	assert.Equal(t, float64(20), notifications[0].Body["user_id"])
	assert.Equal(t, float64(10), notifications[1].Body["user_id"])
}

func TestReviewSubmittedUnknownArticle(t *testing.T) {
	f := newArticleFixture(t)

	err := f.service.ReviewSubmitted(context.Background(), f.editor, 999, 31, "")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
}
