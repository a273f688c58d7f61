package notionsync

import (
	"context"
	"testing"

	bq "cloud.google.com/go/bigquery"
	"github.com/bmorrow/taplist/internal/infra/bigquery"
	"github.com/jomei/notionapi"
)

type mockNotionService struct {
	pages       []notionapi.Page
	created     []notionapi.Properties
	archivedIDs []string
}

func (m *mockNotionService) CreatePage(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error) {
	m.created = append(m.created, properties)
	return &notionapi.Page{ID: notionapi.ObjectID("new-page")}, nil
}

func (m *mockNotionService) UpdatePage(ctx context.Context, pageID string, properties notionapi.Properties) (*notionapi.Page, error) {
	return &notionapi.Page{ID: notionapi.ObjectID(pageID)}, nil
}

func (m *mockNotionService) QueryDatabase(ctx context.Context, databaseID string, filter *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	return &notionapi.DatabaseQueryResponse{Results: m.pages, HasMore: false}, nil
}

func (m *mockNotionService) DeletePage(ctx context.Context, pageID string) error {
	m.archivedIDs = append(m.archivedIDs, pageID)
	return nil
}

type mockBeerLister struct {
	beers []*bigquery.PendingBeerRow
}

func (m *mockBeerLister) ListPendingBeers(ctx context.Context) ([]*bigquery.PendingBeerRow, error) {
	return m.beers, nil
}

func nullFloat(v float64) bq.NullFloat64 {
	return bq.NullFloat64{Float64: v, Valid: true}
}

func nullInt(v int64) bq.NullInt64 {
	return bq.NullInt64{Int64: v, Valid: true}
}

func pageWithBeerID(pageID, beerID string) notionapi.Page {
	return notionapi.Page{
		ID: notionapi.ObjectID(pageID),
		Properties: notionapi.Properties{
			"Beer ID": &notionapi.TitleProperty{
				Title: []notionapi.RichText{{PlainText: beerID}},
			},
		},
	}
}

func TestSyncPendingBeers_CreatesMissing(t *testing.T) {
	repo := &mockBeerLister{beers: []*bigquery.PendingBeerRow{
		{BeerID: "b1", Name: "Curieux", Status: "pending"},
		{BeerID: "b2", Name: "Sip of Sunshine", Status: "pending"},
	}}
	notion := &mockNotionService{pages: []notionapi.Page{
		pageWithBeerID("p1", "b1"),
	}}

	if err := SyncPendingBeers(context.Background(), repo, notion, "db", false); err != nil {
		t.Fatalf("SyncPendingBeers() error = %v", err)
	}

	if len(notion.created) != 1 {
		t.Errorf("Created %d pages, want 1 (b1 already on board)", len(notion.created))
	}
	if len(notion.archivedIDs) != 0 {
		t.Errorf("Archived %d pages, want 0", len(notion.archivedIDs))
	}
}

func TestSyncPendingBeers_ArchivesStale(t *testing.T) {
	repo := &mockBeerLister{beers: []*bigquery.PendingBeerRow{
		{BeerID: "b1", Name: "Curieux", Status: "pending"},
	}}
	notion := &mockNotionService{pages: []notionapi.Page{
		pageWithBeerID("p1", "b1"),
		pageWithBeerID("p2", "approved-long-ago"),
	}}

	if err := SyncPendingBeers(context.Background(), repo, notion, "db", false); err != nil {
		t.Fatalf("SyncPendingBeers() error = %v", err)
	}

	if len(notion.archivedIDs) != 1 || notion.archivedIDs[0] != "p2" {
		t.Errorf("ArchivedIDs = %v, want [p2]", notion.archivedIDs)
	}
}

func TestSyncPendingBeers_DryRunTouchesNothing(t *testing.T) {
	repo := &mockBeerLister{beers: []*bigquery.PendingBeerRow{
		{BeerID: "b1", Name: "Curieux", Status: "pending"},
	}}
	notion := &mockNotionService{pages: []notionapi.Page{
		pageWithBeerID("p1", "stale"),
	}}

	if err := SyncPendingBeers(context.Background(), repo, notion, "db", true); err != nil {
		t.Fatalf("SyncPendingBeers() error = %v", err)
	}

	if len(notion.created) != 0 || len(notion.archivedIDs) != 0 {
		t.Errorf("Dry run created %d, archived %d; want 0, 0", len(notion.created), len(notion.archivedIDs))
	}
}

func TestPendingBeerToNotionProperties(t *testing.T) {
	row := &bigquery.PendingBeerRow{
		BeerID: "b1",
		Name:   "Heady Topper",
		Type:   "Double IPA",
		BarID:  "bar-9",
		ABV:    nullFloat(8.0),
		Price:  nullFloat(7.5),
		Size:   nullInt(16),
		Status: "pending",
	}

	props := PendingBeerToNotionProperties(row)

	if _, ok := props["Beer ID"]; !ok {
		t.Error("Expected Beer ID title property")
	}
	if _, ok := props["ABV"]; !ok {
		t.Error("Expected ABV number property")
	}
	if _, ok := props["Brewery"]; ok {
		t.Error("Did not expect Brewery property for null brewery")
	}
}

func TestExtractBeerID(t *testing.T) {
	if got := extractBeerID(pageWithBeerID("p", "b42")); got != "b42" {
		t.Errorf("extractBeerID() = %q, want b42", got)
	}

	empty := notionapi.Page{Properties: notionapi.Properties{}}
	if got := extractBeerID(empty); got != "" {
		t.Errorf("extractBeerID() = %q, want empty", got)
	}
}
