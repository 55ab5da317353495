package model

import "encoding/json"

// ClientMessageType identifies messages sent from the client to the chat server
type ClientMessageType string

const (
	ClientMessageRegisterName ClientMessageType = "RegisterName"
	ClientMessageChat         ClientMessageType = "Chat"
)

// ServerMessageType identifies messages pushed by the chat server
type ServerMessageType string

const (
	ServerMessageAllMessages    ServerMessageType = "AllMessages"
	ServerMessageNameTaken      ServerMessageType = "NameTaken"
	ServerMessageNameRegistered ServerMessageType = "NameRegistered"
	ServerMessageJoined         ServerMessageType = "Joined"
	ServerMessageNewMessage     ServerMessageType = "NewMessage"
)

// OutboundMessage is the envelope written to the connection.
// Payload is encoded as-is; no validation is applied.
type OutboundMessage struct {
	Kind    ClientMessageType `json:"msg_type"`
	Payload any               `json:"data"`
}

// InboundMessage is the envelope received from the server. Data is decoded
// lazily once Kind is known.
type InboundMessage struct {
	Kind ServerMessageType `json:"msg_type"`
	Data json.RawMessage   `json:"data"`
}

// ChatMessage is a single entry of the room's message log
type ChatMessage struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func RegisterNameMessage(name string) OutboundMessage {
	return OutboundMessage{Kind: ClientMessageRegisterName, Payload: name}
}

func ChatOutboundMessage(name, text string) OutboundMessage {
	return OutboundMessage{
		Kind:    ClientMessageChat,
		Payload: ChatMessage{Name: name, Message: text},
	}
}
