package wishlist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wishflix/internal/apperr"
	"wishflix/models"
)

const (
	firestoreBaseURL = "https://firestore.googleapis.com/v1"

	// wishlistCollection matches the document layout the mobile clients
	// already use: users/{uid}/myList/{movieId}.
	usersCollection    = "users"
	wishlistCollection = "myList"

	listPageSize = 300
)

var ErrProjectIDRequired = errors.New("firestore project id is required")

// TokenSource supplies the bearer token for authenticated store calls.
// A nil TokenSource issues unauthenticated requests.
type TokenSource interface {
	IDToken() (string, bool)
}

// FirestoreStore implements Store against the Firestore REST API.
type FirestoreStore struct {
	projectID string
	baseURL   string
	httpc     *http.Client
	tokens    TokenSource
}

// NewFirestoreStore creates a store for one project's wishlist collections.
// httpc may be nil.
func NewFirestoreStore(projectID string, tokens TokenSource, httpc *http.Client) (*FirestoreStore, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, ErrProjectIDRequired
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &FirestoreStore{
		projectID: strings.TrimSpace(projectID),
		baseURL:   firestoreBaseURL,
		httpc:     httpc,
		tokens:    tokens,
	}, nil
}

// documentsRoot is the resource name prefix shared by every document.
func (s *FirestoreStore) documentsRoot() string {
	return fmt.Sprintf("projects/%s/databases/(default)/documents", s.projectID)
}

func (s *FirestoreStore) collectionPath(userID string) string {
	return fmt.Sprintf("%s/%s/%s/%s", s.documentsRoot(), usersCollection, userID, wishlistCollection)
}

func (s *FirestoreStore) documentName(userID string, movieID int64) string {
	return fmt.Sprintf("%s/%d", s.collectionPath(userID), movieID)
}

func (s *FirestoreStore) do(ctx context.Context, op, method, endpoint string, body, v any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperr.RemoteStore(op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return apperr.RemoteStore(op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.tokens != nil {
		if token, ok := s.tokens.IDToken(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := s.httpc.Do(req)
	if err != nil {
		return apperr.RemoteStore(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apperr.RemoteStoref(op, "request failed: %s", resp.Status)
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return apperr.RemoteStore(op, err)
	}
	return nil
}

// listDocuments pages through the user's collection. fieldMask limits the
// returned fields when only ids are needed.
func (s *FirestoreStore) listDocuments(ctx context.Context, op, userID string, fieldMask []string) ([]fsDocument, error) {
	endpoint := fmt.Sprintf("%s/%s", s.baseURL, s.collectionPath(userID))

	var docs []fsDocument
	pageToken := ""
	for {
		q := url.Values{}
		q.Set("pageSize", strconv.Itoa(listPageSize))
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}
		for _, field := range fieldMask {
			q.Add("mask.fieldPaths", field)
		}

		var payload fsListResponse
		if err := s.do(ctx, op, http.MethodGet, endpoint+"?"+q.Encode(), nil, &payload); err != nil {
			return nil, err
		}

		docs = append(docs, payload.Documents...)
		if payload.NextPageToken == "" {
			return docs, nil
		}
		pageToken = payload.NextPageToken
	}
}

// ListIDs reads the saved movie ids for a user.
func (s *FirestoreStore) ListIDs(ctx context.Context, userID string) (map[int64]struct{}, error) {
	const op = "wishlist list ids"
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserIDRequired
	}

	docs, err := s.listDocuments(ctx, op, userID, []string{"movieId"})
	if err != nil {
		return nil, err
	}

	ids := make(map[int64]struct{}, len(docs))
	for _, doc := range docs {
		if id, ok := doc.movieID(); ok {
			ids[id] = struct{}{}
		}
	}
	return ids, nil
}

// ListEntries reads all saved entries in remote collection order.
func (s *FirestoreStore) ListEntries(ctx context.Context, userID string) ([]models.WishlistEntry, error) {
	const op = "wishlist list entries"
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserIDRequired
	}

	docs, err := s.listDocuments(ctx, op, userID, nil)
	if err != nil {
		return nil, err
	}

	entries := make([]models.WishlistEntry, 0, len(docs))
	for _, doc := range docs {
		if entry, ok := doc.entry(); ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// Add upserts the entry document. addedAt is assigned server-side on every
// write, so re-adding refreshes the timestamp along with the fields.
func (s *FirestoreStore) Add(ctx context.Context, userID string, entry models.WishlistEntry) error {
	const op = "wishlist add"
	if strings.TrimSpace(userID) == "" {
		return ErrUserIDRequired
	}
	if entry.MovieID <= 0 {
		return ErrMovieIDRequired
	}

	commit := fsCommitRequest{
		Writes: []fsWrite{
			{
				Update: &fsDocument{
					Name:   s.documentName(userID, entry.MovieID),
					Fields: encodeEntryFields(entry),
				},
				UpdateTransforms: []fsFieldTransform{
					{FieldPath: "addedAt", SetToServerValue: "REQUEST_TIME"},
				},
			},
		},
	}

	endpoint := fmt.Sprintf("%s/%s:commit", s.baseURL, s.documentsRoot())
	return s.do(ctx, op, http.MethodPost, endpoint, commit, nil)
}

// Remove deletes the entry document. Deleting an absent document succeeds.
func (s *FirestoreStore) Remove(ctx context.Context, userID string, movieID int64) error {
	const op = "wishlist remove"
	if strings.TrimSpace(userID) == "" {
		return ErrUserIDRequired
	}
	if movieID <= 0 {
		return ErrMovieIDRequired
	}

	endpoint := fmt.Sprintf("%s/%s", s.baseURL, s.documentName(userID, movieID))
	return s.do(ctx, op, http.MethodDelete, endpoint, nil, nil)
}

var _ Store = (*FirestoreStore)(nil)
