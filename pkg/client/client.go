package client

import (
	"context"
	"time"

	"bouncebook/pkg/logger"
)

type Client struct {
	Mongo        *MongoClient
	Availability *AvailabilityClient
	Reservations *ReservationsClient

	log *logger.Logger
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetMongo(log *logger.Logger, mongoURI string, mongoConnTimeout time.Duration) {
	c.Mongo = NewMongoClient(log, mongoURI, mongoConnTimeout)
	c.log = log
}

func (c *Client) SetServiceClients(availabilityBaseURL, reservationsBaseURL string) {
	c.Availability = NewAvailabilityClient(availabilityBaseURL)
	c.Reservations = NewReservationsClient(reservationsBaseURL)
}

func (c *Client) GracefulShutdown() {
	if c.Mongo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Mongo.Client.Disconnect(ctx); err != nil && c.log != nil {
		c.log.Error("Failed to disconnect MongoDB client", "error", err)
	}
}
