package main

import (
	"github.com/taurusgroup/threshold-paillier/pkg/party"
)

type round int

const (
	roundDecryption round = iota + 1
	roundRandomness
)

// Message is a serialized tpaillier.Share, broadcast by a party.
type Message struct {
	From  party.ID
	Round round
	Data  []byte
}

type Network interface {
	Broadcast(msg *Message)
	Next(id party.ID, r round) <-chan *Message
}

type chanNetwork struct {
	parties        party.IDSlice
	listenChannels map[round]map[party.ID]chan *Message
}

func NewNetwork(parties party.IDSlice) Network {
	n := len(parties)
	lc := make(map[round]map[party.ID]chan *Message, 2)
	for _, r := range []round{roundDecryption, roundRandomness} {
		lc[r] = make(map[party.ID]chan *Message, n)
		for _, id := range parties {
			lc[r][id] = make(chan *Message, n)
		}
	}
	return &chanNetwork{
		parties:        parties,
		listenChannels: lc,
	}
}

func (c *chanNetwork) Next(id party.ID, r round) <-chan *Message {
	return c.listenChannels[r][id]
}

func (c *chanNetwork) Broadcast(msg *Message) {
	for _, id := range c.parties {
		c.listenChannels[msg.Round][id] <- msg
	}
}
