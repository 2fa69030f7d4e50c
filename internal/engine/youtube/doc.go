// Package youtube is the transcript and search backend.
//
//	innertube.go   Innertube types, constants and HTTP primitives
//	transcript.go  transcript.Backend: watch-page fetch and ANDROID player enumeration
//	search.go      Data API v3 search and video-ID extraction
package youtube
