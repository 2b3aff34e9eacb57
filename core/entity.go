package core

// Entity is an opaque identity handle issued by a registry
// Zero is never issued and marks "no entity"
type Entity uint64

// None is the zero handle
const None Entity = 0
