// Package docgpt is the HTTP client for the document retrieval service.
//
// It implements driven.DocumentService, driven.QueryService and
// driven.DocumentCatalog over the service's JSON API. Non-2xx responses are
// decoded into domain.ServiceError using the service's "detail" field;
// connectivity failures become domain.TransportError.
package docgpt
