package internal

import "testing"

func TestGlobalEndpointURL(t *testing.T) {
	cases := map[string]string{
		ProductionEndpoint:  "https://api.cloudinsight.alertlogic.com",
		IntegrationEndpoint: "https://api.product.dev.alertlogic.com",
		"":                  "https://api.cloudinsight.alertlogic.com",
		"garbage":           "https://api.cloudinsight.alertlogic.com", // unknown falls back to production
	}

	for name, want := range cases {
		if got := GlobalEndpointURL(name); got != want {
			t.Errorf("GlobalEndpointURL(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestEndpointLookupURL(t *testing.T) {
	got := EndpointLookupURL("https://api.example.com", "assets", "12345678", "emea")
	want := "https://api.example.com/endpoints/v1/12345678/residency/emea/services/assets/endpoint/api"
	if got != want {
		t.Errorf("EndpointLookupURL mismatch.\nGot:  %s\nWant: %s", got, want)
	}
}
