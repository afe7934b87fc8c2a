// Package bing talks to the Bing Homepage Image Archive and downloads the
// image of the day.
//
// The archive returns partial image URLs; the client resolves them against
// its base URL before handing metadata to callers, so the rest of the
// application only ever sees absolute URLs.
package bing
