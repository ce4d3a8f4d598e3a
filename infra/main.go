package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/ethos-app/ethos-backend/infra/cloudrun"
	"github.com/ethos-app/ethos-backend/infra/docker"
	"github.com/ethos-app/ethos-backend/infra/firestore"
	"github.com/ethos-app/ethos-backend/infra/identity"
	"github.com/ethos-app/ethos-backend/infra/provider"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// enable identity platform so the API can verify firebase id tokens
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		// firestore database plus the composite indexes the stores query with
		db, err := firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		// create docker repo
		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}

		_, err = cloudrun.SetupCloudRun(ctx, prov, ident, db, repo)
		if err != nil {
			return err
		}

		return nil
	})
}
