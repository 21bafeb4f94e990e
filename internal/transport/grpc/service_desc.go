package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

const ServiceName = "carelink.scheduling.v1.SchedulingService"

const (
	checkAvailabilityMethod = "/" + ServiceName + "/CheckAvailability"
	generateSlotsMethod     = "/" + ServiceName + "/GenerateSlots"
	bookAppointmentMethod   = "/" + ServiceName + "/BookAppointment"
	bookRecurringMethod     = "/" + ServiceName + "/BookRecurring"
)

type SchedulingServer interface {
	CheckAvailability(ctx context.Context, req *CheckAvailabilityRequest) (*CheckAvailabilityResponse, error)
	GenerateSlots(ctx context.Context, req *GenerateSlotsRequest) (*GenerateSlotsResponse, error)
	BookAppointment(ctx context.Context, req *BookAppointmentRequest) (*BookAppointmentResponse, error)
	BookRecurring(ctx context.Context, req *BookRecurringRequest) (*BookRecurringResponse, error)
}

func RegisterSchedulingServer(s grpc.ServiceRegistrar, srv SchedulingServer) {
	s.RegisterService(&schedulingServiceDesc, srv)
}

var schedulingServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SchedulingServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CheckAvailability",
			Handler: unaryHandler(checkAvailabilityMethod, checkAvailabilityRequestDesc,
				decodeCheckAvailabilityRequest, SchedulingServer.CheckAvailability, encodeCheckAvailabilityResponse),
		},
		{
			MethodName: "GenerateSlots",
			Handler: unaryHandler(generateSlotsMethod, generateSlotsRequestDesc,
				decodeGenerateSlotsRequest, SchedulingServer.GenerateSlots, encodeGenerateSlotsResponse),
		},
		{
			MethodName: "BookAppointment",
			Handler: unaryHandler(bookAppointmentMethod, bookAppointmentRequestDesc,
				decodeBookAppointmentRequest, SchedulingServer.BookAppointment, encodeBookAppointmentResponse),
		},
		{
			MethodName: "BookRecurring",
			Handler: unaryHandler(bookRecurringMethod, bookRecurringRequestDesc,
				decodeBookRecurringRequest, SchedulingServer.BookRecurring, encodeBookRecurringResponse),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: schemaPath,
}

// unaryHandler decodes the protobuf request into its Go type, calls the server and
// encodes the reply. Interceptors see the protobuf messages.
func unaryHandler[Req, Resp any](
	method string,
	in protoreflect.MessageDescriptor,
	decode func(protoreflect.Message) (*Req, error),
	call func(SchedulingServer, context.Context, *Req) (*Resp, error),
	encode func(*Resp) *dynamicpb.Message,
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		msg := dynamicpb.NewMessage(in)
		if err := dec(msg); err != nil {
			return nil, err
		}
		handler := func(ctx context.Context, req any) (any, error) {
			r, err := decode(req.(*dynamicpb.Message))
			if err != nil {
				return nil, status.Error(codes.InvalidArgument, err.Error())
			}
			resp, err := call(srv.(SchedulingServer), ctx, r)
			if err != nil {
				return nil, err
			}
			if resp == nil {
				resp = new(Resp)
			}
			return encode(resp), nil
		}
		if interceptor == nil {
			return handler(ctx, msg)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		return interceptor(ctx, msg, info, handler)
	}
}
