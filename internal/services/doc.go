// Package services holds the shared vocabulary for external collaborators:
// the Uploader contract the publish step drives, sentinel error markers for
// failure classification, and context annotation helpers used to thread run
// identity through every service call.
package services
