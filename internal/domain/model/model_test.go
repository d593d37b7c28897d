package model

import "testing"

func TestOrderStatusValues(t *testing.T) {
	cases := []struct {
		name  string
		got   OrderStatus
		value string
	}{
		{"pending", OrderStatusPending, "pending"},
		{"active", OrderStatusActive, "active"},
		{"rejected", OrderStatusRejected, "rejected"},
		{"delivered", OrderStatusDelivered, "delivered"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.got) != tc.value {
				t.Fatalf("expected %s, got %s", tc.value, tc.got)
			}
		})
	}
}

func TestDeliveryMethodValues(t *testing.T) {
	cases := []struct {
		method DeliveryMethod
		value  string
	}{
		{DeliveryMethodServerless, "serverless"},
		{DeliveryMethodDirect, "direct"},
		{DeliveryMethodMetadata, "metadata"},
		{DeliveryMethodMinimal, "minimal"},
		{DeliveryMethodToastOnly, "toast_only"},
	}

	for _, tc := range cases {
		if string(tc.method) != tc.value {
			t.Fatalf("expected %s, got %s", tc.value, tc.method)
		}
	}
}

func TestOrderDeliverable(t *testing.T) {
	cases := []struct {
		status OrderStatus
		want   bool
	}{
		{OrderStatusPending, false},
		{OrderStatusRejected, false},
		{OrderStatusActive, true},
		{OrderStatusDelivered, true},
	}

	for _, tc := range cases {
		o := Order{Status: tc.status}
		if got := o.Deliverable(); got != tc.want {
			t.Fatalf("status %s: expected deliverable=%v, got %v", tc.status, tc.want, got)
		}
	}
}
