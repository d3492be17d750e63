package integrationtests

import (
	"net/http"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"bouncebook/pkg/model"
	"bouncebook/test/integration/testutil"
)

var (
	env        *testutil.TestEnv
	mongo      *testutil.MongoHelper
	httpClient *testutil.Client
	catalog    *testutil.Catalog
)

// The suite runs against a live reservations service and its Mongo
// database. Set TEST_INTEGRATION=1 plus TEST_SERVER_URL / TEST_MONGO_URI
// to point it at a running stack.
func TestMain(t *testing.T) {
	testutil.RequireIntegration(t)

	env = testutil.NewTestEnv()
	mongo, httpClient = env.Setup(t)
	defer env.Cleanup(t, mongo)

	catalog = mongo.SeedDayRentalCatalog(t, 1)

	testHoldLifecycle(t)
	testHoldConflictOnSameWindow(t)
	testHoldSupersededBySameSession(t)
	testPromotionConfirmsAndReplays(t)
	testPromotionAfterReapIsSlotLost(t)
	testLapsedHoldStillPromotesWhenWindowFree(t)
	testFailedPaymentReleasesHold(t)
	testStatusProgressionAndCancellation(t)
}

func eventDate(daysOut int) string {
	return time.Now().AddDate(0, 0, daysOut).Format("2006-01-02")
}

func holdRequest(sessionID, date string) map[string]any {
	return map[string]any{
		"session_id":   sessionID,
		"product_id":   catalog.ProductID,
		"event_date":   date,
		"booking_type": "daily",
	}
}

func testHoldLifecycle(t *testing.T) {
	session := "it-lifecycle-0001"
	date := eventDate(30)

	resp := httpClient.POST(t, "/api/v1/holds", holdRequest(session, date))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var hold model.SoftHold
	resp.UnmarshalData(t, &hold)
	if hold.UnitID == "" || hold.DeliveryCrewID == "" {
		t.Fatalf("hold missing assigned resources: %+v", hold)
	}
	if !hold.ExpiresAt.After(time.Now().Add(10 * time.Minute)) {
		t.Errorf("hold expiry too close: %v", hold.ExpiresAt)
	}

	resp = httpClient.GET(t, "/api/v1/holds/session/"+session)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp = httpClient.DELETE(t, "/api/v1/holds/session/"+session)
	testutil.AssertStatusCode(t, resp, http.StatusNoContent)

	// Release is idempotent.
	resp = httpClient.DELETE(t, "/api/v1/holds/session/"+session)
	testutil.AssertStatusCode(t, resp, http.StatusNoContent)

	resp = httpClient.GET(t, "/api/v1/holds/session/"+session)
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}

func testHoldConflictOnSameWindow(t *testing.T) {
	date := eventDate(31)

	resp := httpClient.POST(t, "/api/v1/holds", holdRequest("it-conflict-first", date))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	resp = httpClient.POST(t, "/api/v1/holds", holdRequest("it-conflict-second", date))
	testutil.AssertStatusCode(t, resp, http.StatusConflict)
	if reason := testutil.GetErrorReason(t, resp); reason != "unit_booked" {
		t.Errorf("expected conflict reason unit_booked, got %q", reason)
	}

	httpClient.DELETE(t, "/api/v1/holds/session/it-conflict-first")
}

func testHoldSupersededBySameSession(t *testing.T) {
	session := "it-supersede-0001"

	resp := httpClient.POST(t, "/api/v1/holds", holdRequest(session, eventDate(32)))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	resp = httpClient.POST(t, "/api/v1/holds", holdRequest(session, eventDate(33)))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	count := mongo.CountDocuments(t, testutil.HoldsCollection, bson.M{"session_id": session})
	if count != 1 {
		t.Errorf("expected one hold per session after supersede, got %d", count)
	}

	httpClient.DELETE(t, "/api/v1/holds/session/"+session)
}

func testPromotionConfirmsAndReplays(t *testing.T) {
	session := "it-promote-0001"
	date := eventDate(34)

	resp := httpClient.POST(t, "/api/v1/holds", holdRequest(session, date))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	webhook := map[string]any{
		"session_id":  session,
		"status":      "succeeded",
		"payment_ref": "pay_it_0001",
	}
	resp = httpClient.SignedPOST(t, "/api/v1/payments/webhook", webhook)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var result promotionResult
	resp.UnmarshalData(t, &result)
	if result.Outcome != "confirmed" || result.Booking == nil {
		t.Fatalf("expected confirmed promotion, got %+v", result)
	}
	bookingID := result.Booking.ID

	// The same delivery again returns the same booking.
	resp = httpClient.SignedPOST(t, "/api/v1/payments/webhook", webhook)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	resp.UnmarshalData(t, &result)
	if result.Booking == nil || result.Booking.ID != bookingID {
		t.Fatalf("replay produced a different booking: %+v", result)
	}

	// Occupancy now belongs to the booking, not the hold.
	holdBlocks := mongo.CountDocuments(t, testutil.BlocksCollection, bson.M{"owner_ref": session})
	if holdBlocks != 0 {
		t.Errorf("expected hold blocks transferred, found %d", holdBlocks)
	}
	bookingBlocks := mongo.CountDocuments(t, testutil.BlocksCollection, bson.M{"owner_ref": bookingID})
	if bookingBlocks == 0 {
		t.Error("expected booking-owned blocks after promotion")
	}

	resp = httpClient.GET(t, "/api/v1/holds/session/"+session)
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}

func testPromotionAfterReapIsSlotLost(t *testing.T) {
	session := "it-reaped-0001"

	resp := httpClient.POST(t, "/api/v1/holds", holdRequest(session, eventDate(35)))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	// Simulate the reaper having swept the hold and its blocks.
	mongo.DeleteAll(t, testutil.HoldsCollection, bson.M{"session_id": session})
	mongo.DeleteAll(t, testutil.BlocksCollection, bson.M{"owner_ref": session})

	resp = httpClient.SignedPOST(t, "/api/v1/payments/webhook", map[string]any{
		"session_id": session,
		"status":     "succeeded",
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var result promotionResult
	resp.UnmarshalData(t, &result)
	if result.Outcome != "slot_lost" || result.Reason != "hold_expired" {
		t.Fatalf("expected slot_lost/hold_expired, got %+v", result)
	}
}

func testLapsedHoldStillPromotesWhenWindowFree(t *testing.T) {
	session := "it-lapsed-0001"
	mongo.SeedExpiredHold(t, catalog, session, eventDate(36))

	resp := httpClient.SignedPOST(t, "/api/v1/payments/webhook", map[string]any{
		"session_id": session,
		"status":     "succeeded",
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var result promotionResult
	resp.UnmarshalData(t, &result)
	if result.Outcome != "confirmed" || result.Booking == nil {
		t.Fatalf("expected lapsed hold to reclaim a free window, got %+v", result)
	}
}

func testFailedPaymentReleasesHold(t *testing.T) {
	session := "it-failed-0001"

	resp := httpClient.POST(t, "/api/v1/holds", holdRequest(session, eventDate(37)))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	resp = httpClient.SignedPOST(t, "/api/v1/payments/webhook", map[string]any{
		"session_id": session,
		"status":     "failed",
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var result promotionResult
	resp.UnmarshalData(t, &result)
	if result.Outcome != "hold_released" {
		t.Fatalf("expected hold_released, got %+v", result)
	}

	resp = httpClient.GET(t, "/api/v1/holds/session/"+session)
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}

func testStatusProgressionAndCancellation(t *testing.T) {
	session := "it-status-0001"
	date := eventDate(38)

	resp := httpClient.POST(t, "/api/v1/holds", holdRequest(session, date))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	resp = httpClient.SignedPOST(t, "/api/v1/payments/webhook", map[string]any{
		"session_id": session,
		"status":     "succeeded",
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var result promotionResult
	resp.UnmarshalData(t, &result)
	if result.Booking == nil {
		t.Fatal("promotion did not produce a booking")
	}
	bookingID := result.Booking.ID

	// Skipping delivery is not a legal transition.
	resp = httpClient.PATCH(t, "/api/v1/bookings/id/"+bookingID+"/status", map[string]any{"status": "picked_up"})
	testutil.AssertStatusCode(t, resp, http.StatusConflict)

	resp = httpClient.PATCH(t, "/api/v1/bookings/id/"+bookingID+"/status", map[string]any{"status": "delivered"})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp = httpClient.PATCH(t, "/api/v1/bookings/id/"+bookingID+"/status", map[string]any{"status": "picked_up"})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp = httpClient.PATCH(t, "/api/v1/bookings/id/"+bookingID+"/status", map[string]any{"status": "completed"})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	// Completed bookings no longer occupy anything further; a new hold
	// for another date exercises the cancellation review path.
	session2 := "it-cancel-0001"
	resp = httpClient.POST(t, "/api/v1/holds", holdRequest(session2, eventDate(39)))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	resp = httpClient.SignedPOST(t, "/api/v1/payments/webhook", map[string]any{
		"session_id": session2,
		"status":     "succeeded",
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	resp.UnmarshalData(t, &result)
	cancelID := result.Booking.ID

	resp = httpClient.POST(t, "/api/v1/bookings/id/"+cancelID+"/cancel", map[string]any{"reason": "customer changed plans"})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var parked model.Booking
	resp = httpClient.GET(t, "/api/v1/bookings/id/"+cancelID)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	resp.UnmarshalData(t, &parked)
	if parked.Status != model.BookingPendingCancellation {
		t.Fatalf("expected pending_cancellation, got %s", parked.Status)
	}
}

type promotionResult struct {
	Outcome string         `json:"outcome"`
	Reason  string         `json:"reason,omitempty"`
	Booking *model.Booking `json:"booking,omitempty"`
}
