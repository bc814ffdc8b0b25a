package enums

import "testing"

func TestCanTransitionForwardPath(t *testing.T) {
	forward := []OrderStatus{
		OrderStatusPending,
		OrderStatusPreparing,
		OrderStatusReady,
		OrderStatusOutForDelivery,
		OrderStatusDelivered,
	}
	for i := 0; i < len(forward)-1; i++ {
		if !CanTransition(forward[i], forward[i+1]) {
			t.Fatalf("expected %s -> %s allowed", forward[i], forward[i+1])
		}
	}

	// No skipping steps or moving backwards.
	if CanTransition(OrderStatusPending, OrderStatusReady) {
		t.Fatal("pending -> ready must be rejected")
	}
	if CanTransition(OrderStatusReady, OrderStatusPreparing) {
		t.Fatal("ready -> preparing must be rejected")
	}
	if CanTransition(OrderStatusDelivered, OrderStatusDelivered) {
		t.Fatal("delivered is terminal")
	}
}

func TestCanTransitionCancellation(t *testing.T) {
	nonTerminal := []OrderStatus{
		OrderStatusPending,
		OrderStatusPreparing,
		OrderStatusReady,
		OrderStatusOutForDelivery,
	}
	for _, from := range nonTerminal {
		if !CanTransition(from, OrderStatusCancelled) {
			t.Fatalf("expected %s -> cancelled allowed", from)
		}
	}
	if CanTransition(OrderStatusDelivered, OrderStatusCancelled) {
		t.Fatal("delivered -> cancelled must be rejected")
	}
	if CanTransition(OrderStatusCancelled, OrderStatusPending) {
		t.Fatal("cancelled is terminal")
	}
}

func TestCanTransitionRejectsUnknownStatus(t *testing.T) {
	if CanTransition(OrderStatus("cooking"), OrderStatusReady) {
		t.Fatal("unknown source status must be rejected")
	}
	if CanTransition(OrderStatusPending, OrderStatus("done")) {
		t.Fatal("unknown target status must be rejected")
	}
}

func TestOrderStatusProgress(t *testing.T) {
	cases := []struct {
		status OrderStatus
		step   int
	}{
		{OrderStatusPending, 1},
		{OrderStatusPreparing, 2},
		{OrderStatusReady, 3},
		{OrderStatusOutForDelivery, 4},
		{OrderStatusDelivered, 5},
		{OrderStatusCancelled, 5},
	}
	for _, tc := range cases {
		step, total := tc.status.Progress()
		if total != 5 {
			t.Fatalf("%s: expected total 5, got %d", tc.status, total)
		}
		if step != tc.step {
			t.Fatalf("%s: expected step %d, got %d", tc.status, tc.step, step)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("out_for_delivery")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if status != OrderStatusOutForDelivery {
		t.Fatalf("unexpected status %s", status)
	}
	if _, err := ParseOrderStatus("shipped"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
