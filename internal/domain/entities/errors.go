package entities

import "errors"

var (
	// ErrInvalidRequest marks client-caused creation failures.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnsupportedGateway is returned for a gateway selector outside KnownGateways.
	ErrUnsupportedGateway = errors.New("unsupported payment gateway")

	// ErrVerification means a callback failed authenticity checks. Permanent.
	ErrVerification = errors.New("webhook verification failed")
	// ErrMalformedPayload means a callback is missing the fields the gateway schema requires.
	ErrMalformedPayload = errors.New("malformed webhook payload")
	// ErrGatewayUnavailable means the gateway could not be reached to verify a callback. Retryable.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	ErrStoreUnavailable = errors.New("payment store unavailable")
	ErrDuplicateKey     = errors.New("duplicate payment key")
	// ErrOrphanedGatewaySession means the gateway session exists but the local record could not be written.
	ErrOrphanedGatewaySession = errors.New("gateway session created but payment record not persisted")

	ErrPaymentNotFound = errors.New("payment not found")
)
