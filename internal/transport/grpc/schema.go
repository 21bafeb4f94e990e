package grpc

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// schemaPackage mirrors proto/carelink/scheduling/v1/scheduling.proto.
const (
	schemaPackage = "carelink.scheduling.v1"
	schemaPath    = "carelink/scheduling/v1/scheduling.proto"
	timestampType = ".google.protobuf.Timestamp"
)

var schedulingFile = mustBuildSchedulingFile()

var (
	checkAvailabilityRequestDesc  = messageDesc("CheckAvailabilityRequest")
	checkAvailabilityResponseDesc = messageDesc("CheckAvailabilityResponse")
	generateSlotsRequestDesc      = messageDesc("GenerateSlotsRequest")
	generateSlotsResponseDesc     = messageDesc("GenerateSlotsResponse")
	bookAppointmentRequestDesc    = messageDesc("BookAppointmentRequest")
	bookAppointmentResponseDesc   = messageDesc("BookAppointmentResponse")
	bookRecurringRequestDesc      = messageDesc("BookRecurringRequest")
	bookRecurringResponseDesc     = messageDesc("BookRecurringResponse")
)

func messageDesc(name protoreflect.Name) protoreflect.MessageDescriptor {
	md := schedulingFile.Messages().ByName(name)
	if md == nil {
		panic(fmt.Sprintf("%s: message %s not declared", schemaPath, name))
	}
	return md
}

// mustBuildSchedulingFile resolves the schema against the global registry, where
// timestamppb has registered google/protobuf/timestamp.proto, and registers the result
// so reflection based tooling can find it.
func mustBuildSchedulingFile() protoreflect.FileDescriptor {
	fd, err := protodesc.NewFile(schedulingFileProto(), protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", schemaPath, err))
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(fmt.Sprintf("%s: %v", schemaPath, err))
	}
	return fd
}

func schedulingFileProto() *descriptorpb.FileDescriptorProto {
	appointment := &descriptorpb.DescriptorProto{
		Name: proto.String("Appointment"),
		Field: []*descriptorpb.FieldDescriptorProto{
			scalarField("id", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalarField("owner_id", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalarField("title", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalarField("activity_type", 4, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalarField("status", 5, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			messageField("start_time", 6, timestampType),
			messageField("end_time", 7, timestampType),
			scalarField("series_id", 8, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			messageField("created_at", 9, timestampType),
			messageField("updated_at", 10, timestampType),
		},
	}

	pattern := &descriptorpb.DescriptorProto{
		Name: proto.String("RecurrencePattern"),
		Field: []*descriptorpb.FieldDescriptorProto{
			scalarField("frequency", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			repeated(scalarField("days_of_week", 2, descriptorpb.FieldDescriptorProto_TYPE_INT32)),
			scalarField("day_of_month", 3, descriptorpb.FieldDescriptorProto_TYPE_INT32),
			scalarField("month_of_year", 4, descriptorpb.FieldDescriptorProto_TYPE_INT32),
			scalarField("end_date", 5, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalarField("occurrences", 6, descriptorpb.FieldDescriptorProto_TYPE_INT32),
			repeated(scalarField("exclude_dates", 7, descriptorpb.FieldDescriptorProto_TYPE_STRING)),
			scalarField("custom_rule", 8, descriptorpb.FieldDescriptorProto_TYPE_STRING),
		},
	}

	proposedSlot := &descriptorpb.DescriptorProto{
		Name: proto.String("ProposedSlot"),
		Field: []*descriptorpb.FieldDescriptorProto{
			messageField("start", 1, timestampType),
			messageField("end", 2, timestampType),
			scalarField("local_date", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
		},
	}

	daySlots := &descriptorpb.DescriptorProto{
		Name: proto.String("DaySlots"),
		Field: []*descriptorpb.FieldDescriptorProto{
			repeated(messageField("slots", 1, localType("ProposedSlot"))),
		},
	}

	skipped := &descriptorpb.DescriptorProto{
		Name: proto.String("SkippedOccurrence"),
		Field: []*descriptorpb.FieldDescriptorProto{
			messageField("start", 1, timestampType),
			messageField("end", 2, timestampType),
			scalarField("reason", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			repeated(messageField("conflicts", 4, localType("Appointment"))),
		},
	}

	checkReq := &descriptorpb.DescriptorProto{
		Name: proto.String("CheckAvailabilityRequest"),
		Field: []*descriptorpb.FieldDescriptorProto{
			scalarField("owner_id", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			messageField("start_time", 2, timestampType),
			messageField("end_time", 3, timestampType),
			scalarField("activity_type", 4, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalarField("time_zone", 5, descriptorpb.FieldDescriptorProto_TYPE_STRING),
		},
	}

	checkResp := &descriptorpb.DescriptorProto{
		Name: proto.String("CheckAvailabilityResponse"),
		Field: []*descriptorpb.FieldDescriptorProto{
			scalarField("is_available", 1, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
			scalarField("reason", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			repeated(messageField("conflicts", 3, localType("Appointment"))),
		},
	}

	businessHoursOnly := scalarField("business_hours_only", 7, descriptorpb.FieldDescriptorProto_TYPE_BOOL)
	businessHoursOnly.Proto3Optional = proto.Bool(true)
	businessHoursOnly.OneofIndex = proto.Int32(0)
	generateReq := &descriptorpb.DescriptorProto{
		Name: proto.String("GenerateSlotsRequest"),
		Field: []*descriptorpb.FieldDescriptorProto{
			scalarField("owner_id", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalarField("range_start", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalarField("range_end", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalarField("activity_type", 4, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalarField("duration_minutes", 5, descriptorpb.FieldDescriptorProto_TYPE_INT32),
			scalarField("exclude_weekends", 6, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
			businessHoursOnly,
			scalarField("time_zone", 8, descriptorpb.FieldDescriptorProto_TYPE_STRING),
		},
		OneofDecl: []*descriptorpb.OneofDescriptorProto{
			{Name: proto.String("_business_hours_only")},
		},
	}

	generateResp := &descriptorpb.DescriptorProto{
		Name: proto.String("GenerateSlotsResponse"),
		Field: []*descriptorpb.FieldDescriptorProto{
			repeated(messageField("available_slots", 1, localType("ProposedSlot"))),
			repeated(messageField("slots_by_day", 2, localType("GenerateSlotsResponse.SlotsByDayEntry"))),
		},
		NestedType: []*descriptorpb.DescriptorProto{{
			Name: proto.String("SlotsByDayEntry"),
			Field: []*descriptorpb.FieldDescriptorProto{
				scalarField("key", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				messageField("value", 2, localType("DaySlots")),
			},
			Options: &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)},
		}},
	}

	bookReq := &descriptorpb.DescriptorProto{
		Name: proto.String("BookAppointmentRequest"),
		Field: []*descriptorpb.FieldDescriptorProto{
			scalarField("owner_id", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalarField("title", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalarField("activity_type", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			messageField("start_time", 4, timestampType),
			messageField("end_time", 5, timestampType),
			scalarField("time_zone", 6, descriptorpb.FieldDescriptorProto_TYPE_STRING),
		},
	}

	bookResp := &descriptorpb.DescriptorProto{
		Name: proto.String("BookAppointmentResponse"),
		Field: []*descriptorpb.FieldDescriptorProto{
			messageField("appointment", 1, localType("Appointment")),
		},
	}

	recurringReq := &descriptorpb.DescriptorProto{
		Name: proto.String("BookRecurringRequest"),
		Field: []*descriptorpb.FieldDescriptorProto{
			scalarField("owner_id", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalarField("title", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalarField("activity_type", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			messageField("start_time", 4, timestampType),
			messageField("end_time", 5, timestampType),
			scalarField("time_zone", 6, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			messageField("pattern", 7, localType("RecurrencePattern")),
			scalarField("horizon_end", 8, descriptorpb.FieldDescriptorProto_TYPE_STRING),
		},
	}

	recurringResp := &descriptorpb.DescriptorProto{
		Name: proto.String("BookRecurringResponse"),
		Field: []*descriptorpb.FieldDescriptorProto{
			scalarField("series_id", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			repeated(messageField("created", 2, localType("Appointment"))),
			repeated(messageField("skipped", 3, localType("SkippedOccurrence"))),
		},
	}

	return &descriptorpb.FileDescriptorProto{
		Name:       proto.String(schemaPath),
		Package:    proto.String(schemaPackage),
		Syntax:     proto.String("proto3"),
		Dependency: []string{"google/protobuf/timestamp.proto"},
		MessageType: []*descriptorpb.DescriptorProto{
			appointment, pattern, proposedSlot, daySlots, skipped,
			checkReq, checkResp, generateReq, generateResp,
			bookReq, bookResp, recurringReq, recurringResp,
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("SchedulingService"),
			Method: []*descriptorpb.MethodDescriptorProto{
				rpcMethod("CheckAvailability", "CheckAvailabilityRequest", "CheckAvailabilityResponse"),
				rpcMethod("GenerateSlots", "GenerateSlotsRequest", "GenerateSlotsResponse"),
				rpcMethod("BookAppointment", "BookAppointmentRequest", "BookAppointmentResponse"),
				rpcMethod("BookRecurring", "BookRecurringRequest", "BookRecurringResponse"),
			},
		}},
	}
}

func localType(name string) string {
	return "." + schemaPackage + "." + name
}

func scalarField(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
}

func messageField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	f := scalarField(name, number, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE)
	f.TypeName = proto.String(typeName)
	return f
}

func repeated(f *descriptorpb.FieldDescriptorProto) *descriptorpb.FieldDescriptorProto {
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}

func rpcMethod(name, in, out string) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String(localType(in)),
		OutputType: proto.String(localType(out)),
	}
}
