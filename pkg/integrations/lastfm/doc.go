// Package lastfm provides a client for the Last.fm web service.
//
// It covers what the digest needs: the events Last.fm recommends to the
// authenticated user, and the desktop authentication flow that turns an API
// key and secret into the permanent session key those calls require.
//
// Requests are signed with the md5 scheme Last.fm documents: parameters sorted
// by name, concatenated as name+value, followed by the shared secret.
package lastfm
