package roster

// 명부 계층: 학년 → 반 → 학생, 교사는 별도 컬렉션 (반↔교사는 다대다)

type Grade struct {
	ID   int
	Name string
}

type Class struct {
	ID      string // ULID
	GradeID int
	Name    string
}

type Teacher struct {
	ID     string // ULID
	Name   string
	Gender *string
}

type Student struct {
	ID      string // ULID
	ClassID string
	Name    string
	Gender  string
}

type ClassNode struct {
	Class
	TeacherIDs []string
	Students   []Student
}

type GradeNode struct {
	Grade
	Classes []ClassNode
}

// Roster는 저장소에서 다시 읽어온 전체 명부 스냅샷이다.
type Roster struct {
	Grades   []GradeNode
	Teachers []Teacher
}

type TeacherHit struct {
	ID   string
	Name string
}
