// Package contacts is the client side of a node's contacts service.
//
// # Overview
//
// A node replicates contact books between peers. This package does not take
// part in that replication; it reads the node's view of it and submits
// commands. It covers:
//
//   - types.go: the state document (Snapshot, Book, Contact, Invite) and
//     peer address helpers
//   - ordered.go: Ordered, a JSON object that keeps the node's key order
//   - commands.go: the command vocabulary accepted by the post endpoint
//   - client.go: HTTP access to /our, /{service}/state and /{service}/post
//   - push.go: the websocket push channel at /{service}/updates
//
// # Client Usage
//
//	client, err := contacts.NewClient("127.0.0.1:8080", contacts.DefaultNamespace, "")
//	if err != nil {
//		return err
//	}
//	our, err := client.FetchOur(ctx)
//	snap, err := client.FetchState(ctx)
//	err = client.Post(ctx, contacts.NewBook{Name: "Friends"})
//
// # Wire Format
//
// Commands are externally tagged JSON. Updates nest a change inside the book
// id:
//
//	{"NewBook":"Friends"}
//	{"Update":["<book uuid>",{"EditContactSocial":["alice","email","a@x"]}]}
//
// Every push frame carries the whole state document, never a delta, so a
// consumer replaces its copy on each message.
//
// # Error Handling
//
// Errors are wrapped with fmt.Errorf. A non-2xx answer to a command wraps
// ErrRejected. A push frame that fails to decode wraps ErrMalformed and the
// subscription keeps reading.
package contacts
