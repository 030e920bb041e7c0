package configs

import (
	"net/http"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

func midtransEnvironment(env ENV) midtrans.EnvironmentType {
	if env.MidtransProduction {
		return midtrans.Production
	}
	return midtrans.Sandbox
}

// NewMidtransClients builds the Snap client used to open transactions and the
// Core API client used to double-check a transaction's status.
func NewMidtransClients(env ENV) (snap.Client, coreapi.Client) {
	midtrans.DefaultGoHttpClient = &http.Client{Timeout: env.PaymentTimeout}

	var snapClient snap.Client
	snapClient.New(env.MidtransServerKey, midtransEnvironment(env))

	var coreClient coreapi.Client
	coreClient.New(env.MidtransServerKey, midtransEnvironment(env))

	return snapClient, coreClient
}
