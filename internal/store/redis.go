package store

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/nsip/procurement-maturity/internal/ingest"
	"github.com/nsip/procurement-maturity/internal/model"
)

const redisPrefix = "procmaturity:org:"

//
// organization documents as redis string values, one key per
// organization.
//
type Redis struct {
	client *redis.Client
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis connects and pings the server.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "cannot reach redis at %s", opts.Addr)
	}
	return &Redis{client: client}, nil
}

func (r *Redis) LoadOrganization(ctx context.Context, name string) (*model.Organization, error) {
	raw, err := r.client.Get(ctx, redisPrefix+Key(name)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read organization %q", name)
	}
	org, err := ingest.DecodeOrganization(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "organization %q", name)
	}
	return org, nil
}

func (r *Redis) SaveUser(ctx context.Context, orgName string, u model.UserRecord) error {
	if Key(orgName) == "" {
		return ErrEmptyOrganization
	}
	existing, err := r.LoadOrganization(ctx, orgName)
	if err != nil {
		return err
	}
	raw, err := encode(merge(existing, orgName, u))
	if err != nil {
		return err
	}
	return errors.Wrap(r.client.Set(ctx, redisPrefix+Key(orgName), raw, 0).Err(), "cannot write organization")
}

func (r *Redis) Organizations(ctx context.Context) ([]string, error) {
	var names []string
	iter := r.client.Scan(ctx, 0, redisPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		raw, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err == redis.Nil {
			// deleted between scan and get
			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, "cannot read organization")
		}
		org, err := ingest.DecodeOrganization(raw)
		if err != nil {
			return nil, err
		}
		names = append(names, org.Name)
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(err, "cannot list organizations")
	}
	sort.Strings(names)
	return names, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
