// Package sse fans messages out to open Server-Sent Events streams.
//
// A Hub holds the live subscriber set. Each stream request registers one
// subscriber that queues framed events on its connection; the request
// goroutine writes them to the response and unsubscribes when the client
// goes away.
//
//	hub := sse.NewHub(sse.WithMaxSubscribers(1000))
//	mux.Handle("/sse", sse.NewHandler(hub, cfg))
//	hub.Publish("hello") // every open stream receives "data: hello\n\n"
package sse
