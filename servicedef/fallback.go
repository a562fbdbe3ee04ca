package servicedef

import "fmt"

// FallbackErrorCode is the error code the provider's circuit breaker attaches to the error it
// raises when a fallback policy says to throw.
const FallbackErrorCode = "cse.bizkeeper.fallback"

const fallbackMessageFormat = "This is a fallback call from circuit breaker. \n" +
	" You can add fallback logic or catching this exception. \n" +
	" info: operation=%s."

// Fallback modes understood by the provider's /fallback/{mode}/{param} operations.
const (
	FallbackReturnNull     = "returnnull"
	FallbackThrowException = "throwexception"
	FallbackFromCache      = "fromcache"
	FallbackForce          = "force"
)

// FallbackForcedResult is what the provider returns for every call in "force" mode.
const FallbackForcedResult = "mockedreslut"

// FallbackExceptionMessage is the message of the error raised by a "throwexception" fallback
// of the given operation, which is named as microservice.schemaId.operationId.
func FallbackExceptionMessage(operation string) string {
	return fmt.Sprintf(fallbackMessageFormat, operation)
}
