package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// Client calls SchedulingService over a connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) CheckAvailability(ctx context.Context, in *CheckAvailabilityRequest, opts ...grpc.CallOption) (*CheckAvailabilityResponse, error) {
	return invoke(ctx, c.cc, checkAvailabilityMethod, in, encodeCheckAvailabilityRequest,
		checkAvailabilityResponseDesc, decodeCheckAvailabilityResponse, opts)
}

func (c *Client) GenerateSlots(ctx context.Context, in *GenerateSlotsRequest, opts ...grpc.CallOption) (*GenerateSlotsResponse, error) {
	return invoke(ctx, c.cc, generateSlotsMethod, in, encodeGenerateSlotsRequest,
		generateSlotsResponseDesc, decodeGenerateSlotsResponse, opts)
}

func (c *Client) BookAppointment(ctx context.Context, in *BookAppointmentRequest, opts ...grpc.CallOption) (*BookAppointmentResponse, error) {
	return invoke(ctx, c.cc, bookAppointmentMethod, in, encodeBookAppointmentRequest,
		bookAppointmentResponseDesc, decodeBookAppointmentResponse, opts)
}

func (c *Client) BookRecurring(ctx context.Context, in *BookRecurringRequest, opts ...grpc.CallOption) (*BookRecurringResponse, error) {
	return invoke(ctx, c.cc, bookRecurringMethod, in, encodeBookRecurringRequest,
		bookRecurringResponseDesc, decodeBookRecurringResponse, opts)
}

func invoke[Req, Resp any](
	ctx context.Context,
	cc grpc.ClientConnInterface,
	method string,
	in *Req,
	encode func(*Req) *dynamicpb.Message,
	out protoreflect.MessageDescriptor,
	decode func(protoreflect.Message) (*Resp, error),
	opts []grpc.CallOption,
) (*Resp, error) {
	if in == nil {
		in = new(Req)
	}
	reply := dynamicpb.NewMessage(out)
	if err := cc.Invoke(ctx, method, encode(in), reply, opts...); err != nil {
		return nil, err
	}
	return decode(reply)
}
