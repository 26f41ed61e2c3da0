package service

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"facility/config"
	"facility/infras/otel"
	"facility/infras/s3"
	"facility/internal/domains/room/model"
	"facility/internal/domains/room/model/dto"
	"facility/internal/domains/room/repository"
	"facility/shared"
	"facility/shared/cache"
	"facility/shared/constant"
	gDto "facility/shared/dto"
	"facility/shared/failure"
	"facility/shared/identity"
	"facility/shared/timezone"
)

const (
	cacheGetRoom    = "room:get"
	cacheGetAllRoom = "room:gets"
	cacheCountRoom  = "room:count"

	// bumped on every write; a fill that read an older generation is dropped
	cacheGeneration    = "room:gen"
	cacheGenerationAll = "all"
	cacheGenerationTTL = 24 * 60 * 60
)

// Room is the room directory. Callers check admin rights for mutations before calling it.
type Room interface {
	Create(ctx context.Context, req dto.RoomRequest) (dto.RoomResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.RoomRequest, id string) (dto.RoomResponse, error)
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, req dto.UploadRoomImageRequest, id string) (dto.RoomResponse, error)
}

type serviceImpl struct {
	repo  repository.Room
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Room {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func byID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, constant.Empty)
}

func generationKey(id string) string {
	return shared.BuildCacheKey(cacheGeneration, id)
}

// invalidate runs before the write returns, so the writer's next read misses the cache.
// Bumping the generations first makes any fill that loaded the old row give up.
func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	c := context.WithoutCancel(ctx)

	keys := []string{generationKey(cacheGenerationAll)}
	if id != constant.Empty {
		keys = append(keys, generationKey(id))
	}

	for _, key := range keys {
		if _, err := s.cache.Incr(c, key, cacheGenerationTTL); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to bump room cache generation")
		}
	}

	if id != constant.Empty {
		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRoom, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete room cache")
		}
	}

	shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
	shared.InvalidateCaches(c, s.cache, cacheCountRoom)
}

// generation reads the counter a later fill must still see. ok is false when the counter is
// unreadable, in which case the caller does not cache at all.
func (s *serviceImpl) generation(ctx context.Context, id string) (gen int64, ok bool) {
	gen, err := s.cache.Generation(ctx, generationKey(id))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to read room cache generation")

		return 0, false
	}

	return gen, true
}

func (s *serviceImpl) fill(ctx context.Context, key, id string, gen int64, value any) {
	saved, err := s.cache.SaveIfGeneration(ctx, key, value, s.cfg.Cache.TTL, generationKey(id), gen)
	if err != nil {
		log.Error().Err(err).Str("cacheKey", key).Msg("failed to save room cache")

		return
	}

	if !saved {
		log.Debug().Str("cacheKey", key).Msg("rooms changed while loading, cache skipped")
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.RoomRequest) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	ctx, cancel := shared.WithStoreTimeout(ctx, s.cfg.Booking.StoreTimeoutSeconds)
	defer cancel()

	room := req.ToModel(identity.Subject(ctx))

	if err = s.repo.Insert(ctx, room); err != nil {
		log.Error().Err(err).Msg("failed to create room")

		return res, shared.StoreError(err, "create room")
	}

	s.invalidate(ctx, constant.Empty)

	res.FromModel(room)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	gen, cacheable := s.generation(ctx, cacheGenerationAll)

	ctx, cancel := shared.WithStoreTimeout(ctx, s.cfg.Booking.StoreTimeoutSeconds)
	defer cancel()

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, shared.StoreError(err, "list rooms")
	}

	res.FromModels(models, total, req.Limit)

	if cacheable {
		go s.fill(context.WithoutCancel(ctx), cacheKey, cacheGenerationAll, gen, res)
	}

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room count")

		return res, nil
	}

	gen, cacheable := s.generation(ctx, cacheGenerationAll)

	ctx, cancel := shared.WithStoreTimeout(ctx, s.cfg.Booking.StoreTimeoutSeconds)
	defer cancel()

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, shared.StoreError(err, "count rooms")
	}

	if cacheable {
		go s.fill(context.WithoutCancel(ctx), cacheKey, cacheGenerationAll, gen, res)
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetRoom, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	gen, cacheable := s.generation(ctx, id)

	ctx, cancel := shared.WithStoreTimeout(ctx, s.cfg.Booking.StoreTimeoutSeconds)
	defer cancel()

	room, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(room)

	if cacheable {
		s.fill(ctx, cacheKey, id, gen, res)
	}

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Room, error) {
	room, err := s.repo.Get(ctx, byID(id))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get room")

		return room, shared.StoreError(err, "get room")
	}

	if room.ID == constant.Empty {
		return room, failure.NotFound("room not found") // nolint:wrapcheck
	}

	return room, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.RoomRequest, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	ctx, cancel := shared.WithStoreTimeout(ctx, s.cfg.Booking.StoreTimeoutSeconds)
	defer cancel()

	current, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	user := identity.Subject(ctx)
	now := timezone.Now()

	if err = s.repo.Update(ctx, req.ToUpdateFields(user, now), byID(id)); err != nil {
		log.Error().Err(err).Msg("failed to update room")

		return res, shared.StoreError(err, "update room")
	}

	s.invalidate(ctx, id)

	res.FromModel(req.Apply(current, user, now))

	return res, nil
}

// Delete removes the room. Reservations that reference it are left as they are.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	ctx, cancel := shared.WithStoreTimeout(ctx, s.cfg.Booking.StoreTimeoutSeconds)
	defer cancel()

	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, byID(id)); err != nil {
		log.Error().Err(err).Msg("failed to delete room")

		return shared.StoreError(err, "delete room")
	}

	s.removeImage(ctx, current.Image)
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UploadImage(ctx context.Context, req dto.UploadRoomImageRequest, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.UploadImage")
	defer scope.End()
	defer scope.TraceIfError(err)

	ctx, cancel := shared.WithStoreTimeout(ctx, s.cfg.Booking.StoreTimeoutSeconds)
	defer cancel()

	current, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	filename := uuid.NewString() + path.Ext(req.Image.Filename)

	url, err := s.s3.UploadFile(ctx, model.EntityName, req.ImageFile, req.Image, filename)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload room image")

		return res, fmt.Errorf("failed to upload image: %w", err)
	}

	user := identity.Subject(ctx)
	now := timezone.Now()

	fields := map[string]any{
		model.FieldImage:         url,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, fields, byID(id)); err != nil {
		log.Error().Err(err).Msg("failed to save room image")

		// the new object is unreferenced now
		s.removeImage(ctx, url)

		return res, shared.StoreError(err, "save room image")
	}

	s.removeImage(ctx, current.Image)
	s.invalidate(ctx, id)

	current.Image = url
	current.ModifiedAt = now
	current.ModifiedBy = user
	res.FromModel(current)

	return res, nil
}

func (s *serviceImpl) removeImage(ctx context.Context, url string) {
	if url == constant.Empty {
		return
	}

	objectName := s.s3.ObjectNameFromURL(model.EntityName, url)
	if objectName == constant.Empty {
		return
	}

	if err := s.s3.DeleteFile(context.WithoutCancel(ctx), model.EntityName, objectName); err != nil {
		log.Error().Err(err).Str("object", objectName).Msg("failed to delete room image")
	}
}
