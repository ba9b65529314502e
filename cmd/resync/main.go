package main

import (
	"context"
	"log"

	redisDriver "github.com/redis/go-redis/v9"

	"social-go/internal/config"
	"social-go/internal/models"
	appRedis "social-go/internal/redis"
	"social-go/internal/services"
	"social-go/internal/storage"
)

// resync recomputes every denormalized aggregate from its authoritative rows.
// The per-mutation synchronizer already keeps counters from drifting, but a
// crash between a mutation and its sync step can leave a stale value; this
// job repairs that by re-running the same recompute functions over the full
// data set.
func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := storage.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	ctx := context.Background()

	redisClient := redisDriver.NewClient(&redisDriver.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var cache services.CounterCache
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		log.Printf("Redis unavailable, skipping cache refresh: %v", err)
	} else {
		cache = appRedis.NewRedisCounterCache(redisClient, cfg.Redis.CacheTTL)
	}

	users := storage.NewGormUserRepository(db)
	friends := storage.NewGormFriendRepository(db)
	posts := storage.NewGormPostRepository(db)
	comments := storage.NewGormCommentRepository(db)
	reactions := storage.NewGormReactionRepository(db)

	userIDs, err := users.AllIDs(ctx)
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}
	for _, id := range userIDs {
		if _, err := services.SyncFriendCount(ctx, friends, users, id); err != nil {
			log.Fatalf("Failed to sync friend count for user %d: %v", id, err)
		}
		if _, err := services.SyncPostCount(ctx, posts, users, id); err != nil {
			log.Fatalf("Failed to sync post count for user %d: %v", id, err)
		}
	}
	log.Printf("Synced friend and post counts for %d users.", len(userIDs))

	postIDs, err := posts.AllActiveIDs(ctx)
	if err != nil {
		log.Fatalf("Failed to list posts: %v", err)
	}
	for _, id := range postIDs {
		if _, err := services.SyncCommentCount(ctx, comments, posts, id); err != nil {
			log.Fatalf("Failed to sync comment count for post %d: %v", id, err)
		}
		if err := resyncReactions(ctx, reactions, posts, comments, cache, models.TargetPost, id); err != nil {
			log.Fatalf("Failed to sync reactions for post %d: %v", id, err)
		}
	}
	log.Printf("Synced comment counts and reactions for %d posts.", len(postIDs))

	commentIDs, err := comments.AllActiveIDs(ctx)
	if err != nil {
		log.Fatalf("Failed to list comments: %v", err)
	}
	for _, id := range commentIDs {
		if err := resyncReactions(ctx, reactions, posts, comments, cache, models.TargetComment, id); err != nil {
			log.Fatalf("Failed to sync reactions for comment %d: %v", id, err)
		}
	}
	log.Printf("Synced reactions for %d comments.", len(commentIDs))
}

func resyncReactions(ctx context.Context, reactions storage.ReactionRepository, posts storage.PostRepository, comments storage.CommentRepository, cache services.CounterCache, kind models.TargetKind, targetID uint) error {
	counts, err := services.SyncReactionCounts(ctx, reactions, posts, comments, kind, targetID)
	if err != nil {
		return err
	}
	if cache != nil {
		if err := cache.SetReactionCounts(ctx, kind, targetID, counts); err != nil {
			log.Printf("Warning: failed to refresh cached reactions for %s %d: %v", kind, targetID, err)
		}
	}
	return nil
}
