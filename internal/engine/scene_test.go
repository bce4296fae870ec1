package engine

import "testing"

func TestSceneAddGameObject(t *testing.T) {
	scene := NewScene("Test")
	obj := NewGameObject("Base")

	scene.AddGameObject(obj)

	if len(scene.GameObjects) != 1 {
		t.Errorf("Expected 1 GameObject, got %d", len(scene.GameObjects))
	}

	if scene.GameObjects[0] != obj {
		t.Error("GameObject not added to scene")
	}

	if obj.Scene != scene {
		t.Error("GameObject.Scene not set")
	}
}

func TestSceneSpawn(t *testing.T) {
	scene := NewScene("Test")
	obj := scene.Spawn("Arm")

	if scene.FindByUID(obj.UID) != obj {
		t.Error("Spawned object not registered in UID map")
	}
	if scene.Len() != 1 {
		t.Errorf("Expected 1 entity, got %d", scene.Len())
	}
}

func TestSceneUIDLookup(t *testing.T) {
	scene := NewScene("Test")
	obj := NewGameObject("Base")

	scene.AddGameObject(obj)

	found := scene.FindByUID(obj.UID)
	if found != obj {
		t.Errorf("FindByUID failed: expected %v, got %v", obj, found)
	}

	notFound := scene.FindByUID(99999)
	if notFound != nil {
		t.Error("FindByUID should return nil for non-existent UID")
	}

	if scene.FindByUID(0) != nil {
		t.Error("FindByUID(0) should return nil")
	}
}

func TestSceneRemoveGameObject(t *testing.T) {
	scene := NewScene("Test")
	obj1 := NewGameObject("Base")
	obj2 := NewGameObject("Arm")

	scene.AddGameObject(obj1)
	scene.AddGameObject(obj2)

	scene.RemoveGameObject(obj1)

	if len(scene.GameObjects) != 1 {
		t.Errorf("Expected 1 GameObject after removal, got %d", len(scene.GameObjects))
	}

	if scene.GameObjects[0] != obj2 {
		t.Error("Wrong GameObject removed")
	}

	if scene.FindByUID(obj1.UID) != nil {
		t.Error("Removed GameObject still in UID map")
	}

	if scene.FindByUID(obj2.UID) != obj2 {
		t.Error("Remaining GameObject not in UID map")
	}

	if obj1.Scene != nil {
		t.Error("Removed GameObject should have nil Scene")
	}
}

func TestSceneDespawn(t *testing.T) {
	scene := NewScene("Test")
	obj := scene.Spawn("Base")

	if !scene.Despawn(obj.UID) {
		t.Error("Despawn should report true for a live entity")
	}
	if scene.Despawn(obj.UID) {
		t.Error("Despawn should report false for an unknown entity")
	}
}

func TestSceneFindByName(t *testing.T) {
	scene := NewScene("Test")
	obj := NewGameObject("UniqueArm")

	scene.AddGameObject(obj)

	found := scene.FindByName("UniqueArm")
	if found != obj {
		t.Error("FindByName failed")
	}

	notFound := scene.FindByName("DoesNotExist")
	if notFound != nil {
		t.Error("FindByName should return nil for non-existent name")
	}
}

func TestSceneFindByTag(t *testing.T) {
	scene := NewScene("Test")
	obj1 := NewGameObject("Leg1")
	obj2 := NewGameObject("Leg2")
	obj3 := NewGameObject("Body")

	obj1.Tags = []string{"leg", "left"}
	obj2.Tags = []string{"leg"}
	obj3.Tags = []string{"body"}

	scene.AddGameObject(obj1)
	scene.AddGameObject(obj2)
	scene.AddGameObject(obj3)

	legs := scene.FindByTag("leg")
	if len(legs) != 2 {
		t.Errorf("Expected 2 legs, got %d", len(legs))
	}

	bodies := scene.FindByTag("body")
	if len(bodies) != 1 {
		t.Errorf("Expected 1 body, got %d", len(bodies))
	}

	notFound := scene.FindByTag("nonexistent")
	if len(notFound) != 0 {
		t.Error("FindByTag should return empty slice for non-existent tag")
	}
}

func TestSceneSnapshotIndependent(t *testing.T) {
	scene := NewScene("Test")
	a := scene.Spawn("A")
	scene.Spawn("B")

	snap := scene.Snapshot()
	scene.RemoveGameObject(a)

	if len(snap) != 2 {
		t.Errorf("Snapshot should keep 2 entries, got %d", len(snap))
	}
	if scene.Len() != 1 {
		t.Errorf("Scene should have 1 entry, got %d", scene.Len())
	}
}

func TestSceneUIDMapInitialization(t *testing.T) {
	scene := NewScene("Test")

	if scene.uidMap == nil {
		t.Error("uidMap should be initialized in NewScene")
	}

	scene.uidMap = nil
	obj := NewGameObject("Test")
	scene.AddGameObject(obj)

	if scene.uidMap == nil {
		t.Error("uidMap should be initialized on first AddGameObject")
	}
}
