package room

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"facility/infras/otel"
	"facility/internal/domains/policy"
	reservationService "facility/internal/domains/reservation/service"
	"facility/internal/domains/room/model"
	"facility/internal/domains/room/model/dto"
	"facility/internal/domains/room/service"
	"facility/shared"
	"facility/shared/constant"
	gDto "facility/shared/dto"
	"facility/shared/failure"
	"facility/shared/identity"
	"facility/shared/validator"
	"facility/transport/http/response"
)

type Handler struct {
	service      service.Room
	reservations reservationService.Reservation
	policy       policy.Policy
	otel         otel.Otel
}

func New(service service.Room, reservations reservationService.Reservation, policy policy.Policy, otel otel.Otel) Handler {
	return Handler{
		service:      service,
		reservations: reservations,
		policy:       policy,
		otel:         otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRoom)
		routerGroup.Get("/", handler.GetRooms)
		routerGroup.Get("/{id}", handler.GetRoomByID)
		routerGroup.Put("/{id}", handler.UpdateRoom)
		routerGroup.Delete("/{id}", handler.DeleteRoom)
		routerGroup.Put("/{id}/image", handler.UploadRoomImage)
		routerGroup.Get("/{id}/availability", handler.GetAvailability)
	})
}

func (handler *Handler) authorize(r *http.Request, action policy.Action) error {
	id, _ := identity.FromContext(r.Context())

	return handler.policy.Authorize(action, id, constant.Empty) //nolint:wrapcheck
}

// CreateRoom handles the creation of a new room.
// @Summary Create a new room
// @Description Create a new room. Admin only.
// @Tags Room
// @Accept json
// @Produce json
// @Param request body dto.RoomRequest true "Room"
// @Success 201 {object} response.Data[dto.RoomResponse] "Room created"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [post]
// @Security BearerAuth
func (handler *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRoom")
	defer scope.End()

	if err := handler.authorize(r, policy.ActionCreateRoom); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	req := dto.RoomRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	room, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create room")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room created successfully by user " + identity.Subject(ctx))

	response.WithMessageAndJSON(w, http.StatusCreated, "Room created successfully", room)
}

// GetRooms retrieves rooms.
// @Summary Get all rooms
// @Description Retrieve rooms with optional filtering and pagination.
// @Tags Room
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Param location query string false "Filter by location"
// @Param facility query string false "Only rooms offering this facility"
// @Param min_capacity query integer false "Minimum capacity"
// @Success 200 {object} response.Data[dto.GetRoomsResponse] "List of rooms"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [get]
// @Security BearerAuth
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRooms")
	defer scope.End()

	if err := handler.authorize(r, policy.ActionListRooms); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	rooms, err := handler.service.GetAll(ctx, queryParams, roomFilter(r))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get rooms")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rooms retrieved successfully")

	response.WithJSON(w, http.StatusOK, rooms)
}

const (
	queryFacility    = "facility"
	queryMinCapacity = "min_capacity"
)

// roomFilter builds the listing filter from the query string, skipping absent parameters.
func roomFilter(r *http.Request) gDto.FilterGroup {
	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if name := query.Get(model.FieldName); name != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
		})
	}

	if location := query.Get(model.FieldLocation); location != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldLocation,
			Operator: gDto.FilterOperatorLike,
			Value:    location,
		})
	}

	if facility := query.Get(queryFacility); facility != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldFacilities,
			Operator: gDto.FilterOperatorContains,
			Value:    facility,
			ArgName:  queryFacility,
		})
	}

	if capacity := shared.ConvertStringToInt(query.Get(queryMinCapacity)); capacity != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCapacity,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    *capacity,
			ArgName:  queryMinCapacity,
		})
	}

	return filterGroup
}

// GetRoomByID retrieves a room by its ID.
// @Summary Get a room by ID
// @Description Retrieve a room by its unique identifier.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Data[dto.RoomResponse] "Room details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetRoomByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomByID")
	defer scope.End()

	if err := handler.authorize(r, policy.ActionViewRoom); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	room, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room retrieved successfully")

	response.WithJSON(w, http.StatusOK, room)
}

// UpdateRoom replaces the details of a room.
// @Summary Update a room by ID
// @Description Replace the details of an existing room. Admin only.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body dto.RoomRequest true "Room"
// @Success 200 {object} response.Data[dto.RoomResponse] "Room updated"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRoom")
	defer scope.End()

	if err := handler.authorize(r, policy.ActionUpdateRoom); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	id := chi.URLParam(r, constant.RequestParamID)
	req := dto.RoomRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	room, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update room")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room updated successfully by user " + identity.Subject(ctx))

	response.WithMessageAndJSON(w, http.StatusOK, "Room updated successfully", room)
}

// DeleteRoom deletes a room by its ID.
// @Summary Delete a room by ID
// @Description Delete a room. Reservations that reference it are kept. Admin only.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Message "Room deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRoom")
	defer scope.End()

	if err := handler.authorize(r, policy.ActionDeleteRoom); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete room")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room deleted successfully by user " + identity.Subject(ctx))

	response.WithMessage(w, http.StatusOK, "Room deleted successfully")
}

// UploadRoomImage sets the photo of a room.
// @Summary Upload a room image
// @Description Upload a photo for a room, replacing the previous one. Admin only.
// @Tags Room
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Room ID"
// @Param image formData file true "Room image"
// @Success 200 {object} response.Data[dto.RoomResponse] "Room image updated"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id}/image [put]
// @Security BearerAuth
func (handler *Handler) UploadRoomImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadRoomImage")
	defer scope.End()

	if err := handler.authorize(r, policy.ActionUploadRoomImage); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, failure.BadRequest(err))

		return
	}

	req := dto.UploadRoomImageRequest{}

	file, fileHeader, err := r.FormFile(constant.FormImage)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	room, err := handler.service.UploadImage(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload room image")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room image updated successfully by user " + identity.Subject(ctx))

	response.WithMessageAndJSON(w, http.StatusOK, "Room image updated successfully", room)
}

// GetAvailability lists the booked slots of a room on one date.
// @Summary Room availability
// @Description Confirmed slots of a room on a date, ordered by start time.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[facility/internal/domains/reservation/model/dto.AvailabilityResponse] "Booked slots"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id}/availability [get]
// @Security BearerAuth
func (handler *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	roomID := chi.URLParam(r, constant.RequestParamID)
	date := r.URL.Query().Get(constant.RequestParamDate)

	res, err := handler.reservations.Availability(ctx, roomID, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
