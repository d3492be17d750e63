package integrationtests

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"bouncebook/pkg/model"
	"bouncebook/test/integration/testutil"
)

var (
	env        *testutil.TestEnv
	mongo      *testutil.MongoHelper
	httpClient *testutil.Client
	catalog    *testutil.Catalog
)

// Runs against a live availability service. Set TEST_INTEGRATION=1 plus
// TEST_SERVER_URL / TEST_MONGO_URI to point it at a running stack.
func TestMain(t *testing.T) {
	testutil.RequireIntegration(t)

	env = testutil.NewTestEnv()
	mongo, httpClient = env.Setup(t)
	defer env.Cleanup(t, mongo)

	catalog = mongo.SeedDayRentalCatalog(t, 1)

	testDaysWithinLeadTime(t)
	testDaysReflectBlackout(t)
	testValidateReportsOccupiedUnit(t)
}

type dayAvailability struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

func daysURL(from string, days int) string {
	return fmt.Sprintf("/api/v1/availability/days?product_id=%s&from=%s&days=%d&booking_type=daily",
		catalog.ProductID, from, days)
}

func testDaysWithinLeadTime(t *testing.T) {
	from := time.Now().AddDate(0, 0, 10).Format("2006-01-02")

	resp := httpClient.GET(t, daysURL(from, 7))
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var days []dayAvailability
	resp.UnmarshalData(t, &days)
	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}
	for _, day := range days {
		if !day.Available {
			t.Errorf("day %s unexpectedly unavailable: %s", day.Date, day.Reason)
		}
	}

	// Today fails the 24 hour lead time.
	resp = httpClient.GET(t, daysURL(time.Now().Format("2006-01-02"), 1))
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	resp.UnmarshalData(t, &days)
	if len(days) != 1 || days[0].Available || days[0].Reason != "lead_time" {
		t.Fatalf("expected lead_time refusal for today, got %+v", days)
	}
}

func testDaysReflectBlackout(t *testing.T) {
	date := time.Now().AddDate(0, 0, 20).Format("2006-01-02")

	mongo.Insert(t, testutil.BlackoutsCollection, model.BlackoutDate{
		Scope:     model.BlackoutGlobal,
		StartDate: date,
		EndDate:   date,
		Reason:    "maintenance day",
		CreatedAt: time.Now(),
	})

	resp := httpClient.GET(t, daysURL(date, 2))
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var days []dayAvailability
	resp.UnmarshalData(t, &days)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Available || days[0].Reason != "blackout" {
		t.Errorf("expected blackout on %s, got %+v", date, days[0])
	}
	if !days[1].Available {
		t.Errorf("day after blackout should be free, got %+v", days[1])
	}
}

func testValidateReportsOccupiedUnit(t *testing.T) {
	date := time.Now().AddDate(0, 0, 25).Format("2006-01-02")
	mongo.SeedExpiredHold(t, catalog, "it-avail-expired", date)

	// Expired hold blocks do not occupy; validate answers available.
	resp := httpClient.POST(t, "/api/v1/availability/validate", map[string]any{
		"product_id":   catalog.ProductID,
		"event_date":   date,
		"booking_type": "daily",
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var result struct {
		Available bool   `json:"available"`
		Reason    string `json:"reason,omitempty"`
		UnitID    string `json:"unit_id,omitempty"`
	}
	resp.UnmarshalData(t, &result)
	if !result.Available {
		t.Fatalf("expired hold should not occupy the unit, got %+v", result)
	}

	// A live block on the only unit flips the answer.
	live := time.Now().Add(time.Hour)
	day, _ := time.ParseInLocation("2006-01-02", date, time.Local)
	mongo.Insert(t, testutil.BlocksCollection, model.BookingBlock{
		ResourceType: model.ResourceUnit,
		ResourceID:   catalog.UnitIDs[0],
		Start:        day,
		End:          day.AddDate(0, 0, 1),
		OwnerType:    model.OwnerHold,
		OwnerRef:     "it-avail-live",
		ExpiresAt:    &live,
		CreatedAt:    time.Now(),
	})

	resp = httpClient.POST(t, "/api/v1/availability/validate", map[string]any{
		"product_id":   catalog.ProductID,
		"event_date":   date,
		"booking_type": "daily",
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	resp.UnmarshalData(t, &result)
	if result.Available || result.Reason != "unit_booked" {
		t.Fatalf("expected unit_booked, got %+v", result)
	}
}
