// Package client implements the participant side of rchat: deriving a
// ChatContext from a chat code, dialing the relay, and running the send
// and receive pipelines against it.
package client
