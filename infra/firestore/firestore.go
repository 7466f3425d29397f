package firestore

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/firestore"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/fintrack/infra/provider"
)

type field struct {
	path  string
	order string // ASCENDING or DESCENDING
}

type index struct {
	collection string
	fields     []field
}

func asc(path string) field  { return field{path, "ASCENDING"} }
func desc(path string) field { return field{path, "DESCENDING"} }

// indexes covers the filter plus sort combinations the api issues. Equality-only
// queries such as the budget key lookup are served by single-field indexes.
var indexes = []index{
	// monthly summary, budget report, category totals
	{"transactions", []field{asc("status"), asc("date")}},
	{"transactions", []field{asc("type"), asc("date")}},
	{"transactions", []field{asc("categoryId"), asc("date")}},
	// default list ordering with filters
	{"transactions", []field{asc("status"), desc("createdAt")}},
	{"transactions", []field{asc("type"), desc("createdAt")}},
	{"transactions", []field{asc("categoryId"), desc("createdAt")}},
	{"transactions", []field{asc("createdBy"), desc("createdAt")}},
	{"transactions", []field{asc("type"), asc("status"), desc("createdAt")}},
	{"transactions", []field{desc("createdAt"), asc("date")}},
	{"transactions", []field{desc("amount"), asc("date")}},
	// active categories by name
	{"categories", []field{asc("isActive"), asc("name")}},
}

func SetupFirestore(ctx *pulumi.Context, prov *gcp.Provider, s provider.Settings) error {
	svc, err := enableFireStore(ctx, prov)
	if err != nil {
		return err
	}

	db, err := createDatabase(ctx, prov, s, svc)
	if err != nil {
		return err
	}

	return createIndexes(ctx, prov, s, db)
}

func enableFireStore(ctx *pulumi.Context, prov *gcp.Provider) (*projects.Service, error) {
	return projects.NewService(ctx, "firestore", &projects.ServiceArgs{
		Service: pulumi.String("firestore.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
}

func createDatabase(ctx *pulumi.Context, prov *gcp.Provider, s provider.Settings, res ...pulumi.Resource) (*firestore.Database, error) {
	return firestore.NewDatabase(ctx, "firestoreDatabase", &firestore.DatabaseArgs{
		Project:    pulumi.String(s.ProjectID),
		Name:       pulumi.String("(default)"),
		LocationId: pulumi.String(s.Region),
		Type:       pulumi.String("FIRESTORE_NATIVE"),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}

func createIndexes(ctx *pulumi.Context, prov *gcp.Provider, s provider.Settings, db *firestore.Database) error {
	for i, idx := range indexes {
		fields := firestore.IndexFieldArray{}
		for _, f := range idx.fields {
			fields = append(fields, &firestore.IndexFieldArgs{
				FieldPath: pulumi.String(f.path),
				Order:     pulumi.String(f.order),
			})
		}

		_, err := firestore.NewIndex(ctx, fmt.Sprintf("%sIndex%d", idx.collection, i), &firestore.IndexArgs{
			Project:    pulumi.String(s.ProjectID),
			Database:   db.Name,
			Collection: pulumi.String(idx.collection),
			Fields:     fields,
		},
			pulumi.Provider(prov),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
