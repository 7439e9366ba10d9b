package config

// WorkerKeyStruct names the redis lists shared by publishers and workers.
type WorkerKeyStruct struct {
	FacultyEventsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	FacultyEventsQueue: "faculty_events_queue",
}
