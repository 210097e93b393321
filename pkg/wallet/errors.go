package wallet

import "errors"

// Failure taxonomy for the wallet flow. Callers match with errors.Is; the
// concrete error usually wraps one of these with detail.
var (
	// ErrProviderUnavailable means no wallet provider is configured at all.
	ErrProviderUnavailable = errors.New("wallet provider unavailable")

	// ErrConnectionDenied means the provider refused account access.
	ErrConnectionDenied = errors.New("wallet connection denied")

	// ErrNetworkSwitchDenied means the provider refused to switch to the
	// target network.
	ErrNetworkSwitchDenied = errors.New("network switch denied")

	// ErrNetworkUnregistered means the provider does not know the target
	// network and could not (or would not) register it.
	ErrNetworkUnregistered = errors.New("network not registered with provider")

	// ErrWrongNetwork means the provider is connected to a different chain
	// than the target network.
	ErrWrongNetwork = errors.New("connected to wrong network")

	// ErrNotConnected means an operation requiring an active session was
	// attempted without one.
	ErrNotConnected = errors.New("wallet not connected")
)
