package services

// Client-facing error messages.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgUserExists         = "User with that email or username already exists"
	MsgSpotNotFound       = "Spot couldn't be found"
	MsgSpotImageNotFound  = "Spot Image couldn't be found"
	MsgReviewNotFound     = "Review couldn't be found"
	MsgReviewImageMissing = "Review Image couldn't be found"
	MsgReviewExists       = "User already has a review for this spot"
	MsgImageLimit         = "Maximum number of images for this resource was reached"
	MsgDeleted            = "Successfully deleted"

	// NoPreviewImage stands in for the preview of a spot without one.
	NoPreviewImage = "No Preview Image Available"
)
