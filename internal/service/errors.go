package service

import "errors"

var (
	// ErrInvalidClientID is returned when client ID is empty.
	ErrInvalidClientID = errors.New("invalid client id")

	// ErrInvalidDeliveryID is returned when delivery ID is empty.
	ErrInvalidDeliveryID = errors.New("invalid delivery id")

	// ErrInvalidProofID is returned when proof ID is empty.
	ErrInvalidProofID = errors.New("invalid proof id")

	// ErrInvalidAmount is returned when a delivery amount is not positive.
	ErrInvalidAmount = errors.New("invalid delivery amount")

	// ErrEmptyDeliveryList is returned when a proof covers no deliveries.
	ErrEmptyDeliveryList = errors.New("delivery list is empty")

	// ErrEmptyFile is returned when the uploaded proof file has no content.
	ErrEmptyFile = errors.New("proof file is empty")

	// ErrUnsupportedFileType is returned when the proof file is not a PNG,
	// JPEG, or PDF.
	ErrUnsupportedFileType = errors.New("unsupported proof file type")

	// ErrFileTooLarge is returned when the proof file exceeds the size limit.
	ErrFileTooLarge = errors.New("proof file exceeds maximum size")

	// ErrMissingProcessor is returned when an approve/reject call does not
	// identify the acting admin.
	ErrMissingProcessor = errors.New("processed_by is required")

	// ErrMissingRejectionReason is returned when a rejection has no reason.
	ErrMissingRejectionReason = errors.New("rejection reason is required")

	// ErrDeliveryNotOwned is returned when a delivery belongs to a
	// different client than the proof uploader.
	ErrDeliveryNotOwned = errors.New("delivery does not belong to client")

	// ErrDeliveryCancelled is returned when a proof references a cancelled
	// delivery.
	ErrDeliveryCancelled = errors.New("delivery is cancelled")

	// ErrProofInFlight is returned when a delivery already has a proof
	// awaiting verification.
	ErrProofInFlight = errors.New("delivery already has a proof pending verification")

	// ErrDeliveryAlreadyPaid is returned when a proof references a delivery
	// that is already paid.
	ErrDeliveryAlreadyPaid = errors.New("delivery is already paid")

	// ErrProofAlreadyProcessed is returned when approving or rejecting a
	// proof that has left the pending state.
	ErrProofAlreadyProcessed = errors.New("proof already processed")

	// ErrUploadInProgress is returned when another proof upload for the
	// same client is still in flight.
	ErrUploadInProgress = errors.New("another upload is in progress for this client")

	// ErrInvalidStatusTransition is returned on a disallowed delivery
	// status change.
	ErrInvalidStatusTransition = errors.New("invalid delivery status transition")

	// ErrDeliveryNotCancellable is returned when cancelling a delivery that
	// is already paid or already cancelled.
	ErrDeliveryNotCancellable = errors.New("delivery cannot be cancelled in current state")
)
