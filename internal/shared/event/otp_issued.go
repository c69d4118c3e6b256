package event

const OtpIssuedDestination string = "otp_issued"

// OtpIssuedMessage is emitted when a login issues a fresh one-time code so a
// delivery worker can send it out-of-band.
type OtpIssuedMessage struct {
	SubjectID      string `json:"subject_id"`
	ContactAddress string `json:"contact_address"`
	Code           string `json:"code"`
	ExpiresAt      int64  `json:"expires_at"`
}
