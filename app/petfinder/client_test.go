package petfinder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samshap/dog-digest/app/digest"
)

const samplePage = `{
  "animals": [
    {
      "id": 74000001,
      "name": "Biscuit",
      "age": "Young",
      "gender": "Female",
      "size": "Medium",
      "breeds": {"primary": "Labrador Retriever", "secondary": "Beagle", "mixed": true},
      "description": "Sweet and playful.",
      "published_at": "2025-09-18T04:25:04+00:00",
      "photos": [{"small": "https://img/s1", "medium": "https://img/m1", "large": "https://img/l1", "full": "https://img/f1"}],
      "primary_photo_cropped": {"small": "https://img/cs", "medium": "https://img/cm", "large": "https://img/cl", "full": "https://img/cf"},
      "videos": [{"url": "https://vid/1"}, {"embed": "https://vid/2"}, {}],
      "url": "https://www.petfinder.com/dog/biscuit-74000001/",
      "contact": {"email": "shelter@example.org", "phone": "(555) 555-5555"}
    },
    {
      "id": 74000002,
      "name": "Scrappy",
      "breeds": {"primary": "Terrier"},
      "published_at": "not-a-timestamp",
      "photos": [{"small": "https://img/s2"}]
    }
  ],
  "pagination": {"current_page": 1, "total_pages": 3}
}`

func TestFetchPage(t *testing.T) {
	var gotAuth string
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	client := NewClient(server.URL, "Dog Digest Test/1.0", "young,puppy")
	page, err := client.FetchPage(context.Background(), "test-token", digest.PageRequest{
		Center: digest.SearchCenter{ZipCode: "08401", DistanceMiles: 100},
		Page:   1,
	})
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("Expected bearer token header, got %q", gotAuth)
	}

	expectedQuery := map[string]string{
		"type":     "dog",
		"status":   "adoptable",
		"location": "08401",
		"distance": "100",
		"age":      "young,puppy",
		"sort":     "recent",
		"limit":    "100",
		"page":     "1",
	}
	for k, v := range expectedQuery {
		if gotQuery[k] != v {
			t.Errorf("Expected query %s=%s, got %s", k, v, gotQuery[k])
		}
	}

	if page.CurrentPage != 1 || page.TotalPages != 3 {
		t.Errorf("Expected pagination 1/3, got %d/%d", page.CurrentPage, page.TotalPages)
	}
	if len(page.Listings) != 2 {
		t.Fatalf("Expected 2 listings, got %d", len(page.Listings))
	}

	first := page.Listings[0]
	if first.ID != "74000001" {
		t.Errorf("Expected stringified id, got %q", first.ID)
	}
	if first.PrimaryBreed != "Labrador Retriever" || first.SecondaryBreed != "Beagle" {
		t.Errorf("Unexpected breeds: %q / %q", first.PrimaryBreed, first.SecondaryBreed)
	}
	expectedTime := time.Date(2025, 9, 18, 4, 25, 4, 0, time.UTC)
	if !first.PublishedAt.Equal(expectedTime) {
		t.Errorf("Expected published at %v, got %v", expectedTime, first.PublishedAt)
	}
	if len(first.Photos) != 1 || first.Photos[0].Small != "https://img/cs" || first.Photos[0].Large != "https://img/cf" {
		t.Errorf("Expected the pre-cropped photo pair to win, got %v", first.Photos)
	}
	if first.ContactEmail != "shelter@example.org" {
		t.Errorf("Unexpected contact email: %q", first.ContactEmail)
	}
	if len(first.VideoURLs) != 2 || first.VideoURLs[0] != "https://vid/1" || first.VideoURLs[1] != "https://vid/2" {
		t.Errorf("Expected direct link then embed fallback, empty clips dropped, got %v", first.VideoURLs)
	}

	second := page.Listings[1]
	if !second.PublishedAt.IsZero() {
		t.Errorf("Unparseable published_at should map to zero time, got %v", second.PublishedAt)
	}
	if len(second.Photos) != 0 {
		t.Errorf("Partial photo pair should be dropped, got %v", second.Photos)
	}
}

func TestFetchPage_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "Dog Digest Test/1.0", "")
	_, err := client.FetchPage(context.Background(), "t", digest.PageRequest{
		Center: digest.SearchCenter{ZipCode: "08401", DistanceMiles: 100},
		Page:   2,
	})
	if err == nil {
		t.Fatal("Expected error for HTTP 500")
	}

	fetchErr, ok := err.(*FetchError)
	if !ok {
		t.Fatalf("Expected *FetchError, got %T", err)
	}
	if fetchErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", fetchErr.StatusCode)
	}
}

func TestFetchPage_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // closed on purpose

	client := NewClient(server.URL, "Dog Digest Test/1.0", "")
	_, err := client.FetchPage(context.Background(), "t", digest.PageRequest{
		Center: digest.SearchCenter{ZipCode: "08401", DistanceMiles: 100},
		Page:   1,
	})
	if err == nil {
		t.Fatal("Expected transport error")
	}
	if fetchErr, ok := err.(*FetchError); !ok || fetchErr.StatusCode != 0 {
		t.Errorf("Expected transport-level FetchError, got %v", err)
	}
}

func TestTokenSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth2/token" {
			t.Errorf("Unexpected token path: %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("Failed to parse form: %v", err)
		}
		if grant := r.FormValue("grant_type"); grant != "client_credentials" {
			t.Errorf("Expected client_credentials grant, got %q", grant)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "opaque-token", "token_type": "Bearer", "expires_in": 3600}`))
	}))
	defer server.Close()

	tokens := NewTokenSource("id", "secret", server.URL)
	token, err := tokens.Token(context.Background())
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if token != "opaque-token" {
		t.Errorf("Expected opaque-token, got %q", token)
	}
}
