package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"contentcore/internal/content"
	"contentcore/pkg/domain"
)

// collection adapts one typed content collection to the generic CLI verbs.
type collection struct {
	name   string
	list   func(ctx context.Context) (any, error)
	get    func(ctx context.Context, id string) (any, bool)
	add    func(ctx context.Context, data []byte) (any, domain.Result, error)
	update func(ctx context.Context, id string, data []byte) (any, domain.Result, error)
	remove func(ctx context.Context, id string) (domain.Result, error)
}

func typedCollection[T any](
	name string,
	list func(context.Context) []T,
	get func(context.Context, string) (T, bool),
	create func(context.Context, T) (T, domain.Result, error),
	update func(context.Context, string, func(*T) error) (T, domain.Result, error),
	remove func(context.Context, string) (domain.Result, error),
) collection {
	return collection{
		name: name,
		list: func(ctx context.Context) (any, error) {
			return list(ctx), nil
		},
		get: func(ctx context.Context, id string) (any, bool) {
			record, ok := get(ctx, id)
			return record, ok
		},
		add: func(ctx context.Context, data []byte) (any, domain.Result, error) {
			var candidate T
			if err := json.Unmarshal(data, &candidate); err != nil {
				return nil, domain.Result{}, fmt.Errorf("decode %s record: %w", name, err)
			}
			return asAny(create(ctx, candidate))
		},
		update: func(ctx context.Context, id string, data []byte) (any, domain.Result, error) {
			// The patch is unmarshalled over the stored record, so absent
			// fields keep their values.
			return asAny(update(ctx, id, func(record *T) error {
				if err := json.Unmarshal(data, record); err != nil {
					return fmt.Errorf("decode %s patch: %w", name, err)
				}
				return nil
			}))
		},
		remove: remove,
	}
}

func asAny[T any](record T, res domain.Result, err error) (any, domain.Result, error) {
	return record, res, err
}

// collections binds every list collection to its service methods, keyed by
// the bucket name used in seed and export files.
func collections(svc *content.Service) map[string]collection {
	cols := []collection{
		typedCollection(content.BucketBlog, svc.ListBlogPosts, svc.GetBlogPost, svc.CreateBlogPost, svc.UpdateBlogPost, svc.DeleteBlogPost),
		typedCollection(content.BucketProjects, svc.ListProjects, svc.GetProject, svc.CreateProject, svc.UpdateProject, svc.DeleteProject),
		typedCollection(content.BucketAchievements, svc.ListAchievements, svc.GetAchievement, svc.CreateAchievement, svc.UpdateAchievement, svc.DeleteAchievement),
		typedCollection(content.BucketExperience, svc.ListExperiences, svc.GetExperience, svc.CreateExperience, svc.UpdateExperience, svc.DeleteExperience),
		typedCollection(content.BucketLibrary, svc.ListLibraryItems, svc.GetLibraryItem, svc.CreateLibraryItem, svc.UpdateLibraryItem, svc.DeleteLibraryItem),
		typedCollection(content.BucketArtworks, svc.ListVisualArtworks, svc.GetVisualArtwork, svc.CreateVisualArtwork, svc.UpdateVisualArtwork, svc.DeleteVisualArtwork),
		typedCollection(content.BucketJournal, svc.ListJournalPosts, svc.GetJournalPost, svc.CreateJournalPost, svc.UpdateJournalPost, svc.DeleteJournalPost),
		typedCollection(content.BucketFAQ, svc.ListFAQEntries, svc.GetFAQEntry, svc.CreateFAQEntry, svc.UpdateFAQEntry, svc.DeleteFAQEntry),
		typedCollection(content.BucketSocial, svc.ListSocialInitiatives, svc.GetSocialInitiative, svc.CreateSocialInitiative, svc.UpdateSocialInitiative, svc.DeleteSocialInitiative),
		typedCollection(content.BucketPlans, svc.ListSubscriptionPlans, svc.GetSubscriptionPlan, svc.CreateSubscriptionPlan, svc.UpdateSubscriptionPlan, svc.DeleteSubscriptionPlan),
		typedCollection(content.BucketUsers, svc.ListUserAccounts, svc.GetUserAccount, svc.CreateUserAccount, svc.UpdateUserAccount, svc.DeleteUserAccount),
	}
	out := make(map[string]collection, len(cols))
	for _, col := range cols {
		out[col.name] = col
	}
	return out
}

func collectionFor(svc *content.Service, name string) (collection, error) {
	cols := collections(svc)
	col, ok := cols[name]
	if !ok {
		names := make([]string, 0, len(cols))
		for n := range cols {
			names = append(names, n)
		}
		sort.Strings(names)
		return collection{}, fmt.Errorf("unknown collection %q (one of: %v)", name, names)
	}
	return col, nil
}
