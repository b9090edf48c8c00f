// Package relay assembles the chat relay: a message ingress endpoint that
// publishes to an sse.Hub, the stream endpoint every subscriber listens on,
// and a small set of demo routes around a browser chat page.
//
// Posting to the ingress path
//
//	curl 'localhost:3000/chat?message=hi%20there'
//
// delivers
//
//	data: hi there
//
// to every open stream on /sse.
package relay
