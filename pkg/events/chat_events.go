package events

import "time"

const (
	TypeOneTimeCodeIssued = "OTP_ISSUED"
	TypeCredentialReset   = "CREDENTIAL_RESET"
	TypeAbendDataReloaded = "ABEND_DATA_RELOADED"
)

func OneTimeCodeIssued(sessionID, identity string) BaseEvent {
	return BaseEvent{
		Type: TypeOneTimeCodeIssued,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"identity":   identity,
		},
		OccurredAt: time.Now(),
	}
}

func CredentialReset(sessionID, identity string) BaseEvent {
	return BaseEvent{
		Type: TypeCredentialReset,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"identity":   identity,
		},
		OccurredAt: time.Now(),
	}
}

func AbendDataReloaded(count int) BaseEvent {
	return BaseEvent{
		Type: TypeAbendDataReloaded,
		Data: map[string]interface{}{
			"count": count,
		},
		OccurredAt: time.Now(),
	}
}
