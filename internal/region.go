package internal

import "fmt"

// Global endpoint names accepted by the session.
const (
	ProductionEndpoint  = "production"
	IntegrationEndpoint = "integration"
)

const (
	productionURL  = "https://api.cloudinsight.alertlogic.com"
	integrationURL = "https://api.product.dev.alertlogic.com"
)

// GlobalEndpointURL maps a global endpoint name to its API root.
// Unknown names fall back to production.
func GlobalEndpointURL(name string) string {
	if name == IntegrationEndpoint {
		return integrationURL
	}
	return productionURL
}

// EndpointLookupURL builds the endpoint directory query URL for a service.
// The directory responds with {"<service>": "<hostname>"}.
func EndpointLookupURL(globalURL, service, accountID, residency string) string {
	return fmt.Sprintf("%s/endpoints/v1/%s/residency/%s/services/%s/endpoint/api",
		globalURL, accountID, residency, service)
}
